package application

import (
	"context"
	"math"
	"time"

	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
	"github.com/wyfcoding/productcatalog/pkg/logger"
)

// ProductService 商品应用服务：组合仓储与事件发布
type ProductService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
	maxPrice  float64
}

// NewProductService 创建商品应用服务；publisher 可以为 nil，maxPrice <= 0 时使用默认上限
func NewProductService(repo domain.ProductRepository, publisher domain.EventPublisher, maxPrice float64) *ProductService {
	if maxPrice <= 0 {
		maxPrice = domain.DefaultMaxPrice
	}
	return &ProductService{repo: repo, publisher: publisher, maxPrice: maxPrice}
}

// CreateProduct 创建商品。价格检查在这里独立执行一次，即使调用方绕过了
// 共享校验策略也必须触发；失败时不产生任何存储写入。
func (s *ProductService) CreateProduct(ctx context.Context, name string, price float64) (*domain.Product, error) {
	if err := s.checkPrice(price); err != nil {
		return nil, err
	}

	p := &domain.Product{Name: name, Price: price}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.ProductCreatedEventType, p.Name, domain.ProductCreatedEvent{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Timestamp: time.Now(),
	})

	return p, nil
}

// UpdateProduct 更新商品，更新前重新应用价格检查
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, name string, price float64) (*domain.Product, error) {
	if err := s.checkPrice(price); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Price = price
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publish(ctx, domain.ProductUpdatedEventType, p.Name, domain.ProductUpdatedEvent{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Timestamp: time.Now(),
	})

	return p, nil
}

// DeleteProduct 按 ID 删除商品，不可恢复
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, domain.ProductDeletedEventType, "", domain.ProductDeletedEvent{
		ProductID: id,
		Timestamp: time.Now(),
	})

	return nil
}

// GetProduct 按 ID 查询商品
func (s *ProductService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts 按插入顺序分页查询，返回一页商品与总数
func (s *ProductService) ListProducts(ctx context.Context, page, size int) ([]*domain.Product, int, error) {
	if size <= 0 {
		size = 10
	}
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, size)
}

// MaxPrice 返回生效的价格上限
func (s *ProductService) MaxPrice() float64 {
	return s.maxPrice
}

// checkPrice 入库前的价格守卫：拒绝非有限值与超上限值。
// NaN 与任何值比较都为 false，必须在上限比较之前单独拦截。
func (s *ProductService) checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return domain.ErrPriceInvalid
	}
	if price > s.maxPrice {
		return domain.ErrPriceTooLarge
	}
	return nil
}

// publish 尽力发布领域事件；发布失败只记日志，不影响主流程
func (s *ProductService) publish(ctx context.Context, topic, key string, event any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "failed to publish catalog event", "topic", topic, "error", err)
	}
}
