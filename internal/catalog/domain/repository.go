package domain

import "context"

type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	Delete(ctx context.Context, id uint) error
	// List 按插入顺序返回一页商品与总数
	List(ctx context.Context, offset, limit int) ([]*Product, int, error)
}

// EventPublisher 领域事件发布接口；实现可选，nil 时跳过发布
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
