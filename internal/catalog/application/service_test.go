package application_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/productcatalog/internal/catalog/application"
	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
	"github.com/wyfcoding/productcatalog/internal/catalog/infrastructure/persistence/memory"
)

// countingRepo 包装仓储并统计写入次数
type countingRepo struct {
	domain.ProductRepository
	saves   int
	deletes int
}

func (r *countingRepo) Save(ctx context.Context, p *domain.Product) error {
	r.saves++
	return r.ProductRepository.Save(ctx, p)
}

func (r *countingRepo) Delete(ctx context.Context, id uint) error {
	r.deletes++
	return r.ProductRepository.Delete(ctx, id)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestCreateProduct(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	pub := &recordingPublisher{}
	svc := application.NewProductService(repo, pub, 0)

	p, err := svc.CreateProduct(ctx, "Product 123", 1234)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Product 123", p.Name)
	assert.Equal(t, 1234.0, p.Price)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, []string{domain.ProductCreatedEventType}, pub.topics)

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, stored.Name)
	assert.Equal(t, p.Price, stored.Price)
}

func TestCreateProductPriceTooLarge(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	svc := application.NewProductService(repo, nil, 0)

	// 服务层独立于校验策略再查一次上限，绕过策略直接调用也必须被拦下
	_, err := svc.CreateProduct(ctx, "Too big", 1_234_567)
	require.ErrorIs(t, err, domain.ErrPriceTooLarge)
	assert.Zero(t, repo.saves, "failed create must not write to storage")

	_, err = svc.CreateProduct(ctx, "At ceiling", 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)
}

func TestCreateProductNonFinitePrice(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	svc := application.NewProductService(repo, nil, 0)

	// NaN 与上限比较恒为 false，守卫必须在比较之外把它拦下
	for _, price := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := svc.CreateProduct(ctx, "Product", price)
		require.ErrorIs(t, err, domain.ErrPriceInvalid)
	}
	assert.Zero(t, repo.saves, "non-finite price must not write to storage")

	p, err := svc.CreateProduct(ctx, "Product", 100)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, "Product", math.NaN())
	require.ErrorIs(t, err, domain.ErrPriceInvalid)

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Price)
}

func TestUpdateProduct(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	pub := &recordingPublisher{}
	svc := application.NewProductService(repo, pub, 0)

	p, err := svc.CreateProduct(ctx, "Before", 100)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, "After", 200)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, 200.0, updated.Price)

	stored, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", stored.Name)

	assert.Equal(t, []string{domain.ProductCreatedEventType, domain.ProductUpdatedEventType}, pub.topics)
}

func TestUpdateProductErrors(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	svc := application.NewProductService(repo, nil, 0)

	_, err := svc.UpdateProduct(ctx, 42, "Missing", 100)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	p, err := svc.CreateProduct(ctx, "Product", 100)
	require.NoError(t, err)

	saves := repo.saves
	_, err = svc.UpdateProduct(ctx, p.ID, "Product", 1_234_567)
	require.ErrorIs(t, err, domain.ErrPriceTooLarge)
	assert.Equal(t, saves, repo.saves, "failed update must not write to storage")
}

func TestDeleteProduct(t *testing.T) {
	ctx := t.Context()
	repo := &countingRepo{ProductRepository: memory.NewProductRepository()}
	pub := &recordingPublisher{}
	svc := application.NewProductService(repo, pub, 0)

	p, err := svc.CreateProduct(ctx, "Product", 100)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	_, err = svc.GetProduct(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	require.ErrorIs(t, svc.DeleteProduct(ctx, p.ID), domain.ErrProductNotFound)
	assert.Contains(t, pub.topics, domain.ProductDeletedEventType)
}

func TestListProductsPagination(t *testing.T) {
	ctx := t.Context()
	svc := application.NewProductService(memory.NewProductRepository(), nil, 0)

	var last *domain.Product
	for i := 0; i < 11; i++ {
		p, err := svc.CreateProduct(ctx, "Product", float64(i+1))
		require.NoError(t, err)
		last = p
	}

	page1, total, err := svc.ListProducts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, page1, 10)
	for _, p := range page1 {
		assert.NotEqual(t, last.ID, p.ID, "11th product must not be on page 1")
	}

	page2, total, err := svc.ListProducts(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, page2, 1)
	assert.Equal(t, last.ID, page2[0].ID)
}
