package domain

import "errors"

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrPriceTooLarge 价格超过上限；服务层独立于校验层再次检查
	ErrPriceTooLarge = errors.New("price exceeds maximum")
	// ErrPriceInvalid 价格为 NaN/Inf 等非有限值，不能入库
	ErrPriceInvalid = errors.New("price is not a finite number")
)
