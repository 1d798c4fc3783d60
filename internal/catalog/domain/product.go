package domain

import "gorm.io/gorm"

// DefaultMaxPrice 商品价格上限，可被配置覆盖
const DefaultMaxPrice float64 = 1_000_000

type Product struct {
	gorm.Model
	Name  string  `gorm:"column:name;type:varchar(255);not null"`
	Price float64 `gorm:"column:price;type:decimal(20,2);not null"`
}

func (Product) TableName() string { return "products" }
