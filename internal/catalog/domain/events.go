package domain

import "time"

const (
	ProductCreatedEventType = "catalog.product.created"
	ProductUpdatedEventType = "catalog.product.updated"
	ProductDeletedEventType = "catalog.product.deleted"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}
