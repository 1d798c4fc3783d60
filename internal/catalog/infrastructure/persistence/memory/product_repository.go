// Package memory 提供内存版商品仓储，用于测试与 dev 模式
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
)

type productRepository struct {
	mu     sync.RWMutex
	nextID uint
	// 按插入顺序保存 ID，支撑列表的插入序保证
	order    []uint
	products map[uint]domain.Product
}

func NewProductRepository() domain.ProductRepository {
	return &productRepository{
		nextID:   1,
		products: make(map[uint]domain.Product),
	}
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
		product.CreatedAt = now
		r.order = append(r.order, product.ID)
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *productRepository) List(ctx context.Context, offset, limit int) ([]*domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]*domain.Product, 0, end-offset)
	for _, id := range r.order[offset:end] {
		p := r.products[id]
		page = append(page, &p)
	}
	return page, total, nil
}
