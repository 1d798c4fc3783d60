package application

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/wyfcoding/productcatalog/internal/catalog/domain"
)

// 字段校验失败原因
const (
	ReasonRequired  = "required"
	ReasonNotNumber = "not_a_number"
	ReasonTooLarge  = "too_large"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidatedProduct 校验通过后的规范化结果
type ValidatedProduct struct {
	Name  string
	Price float64
}

// ProductValidator 商品输入校验策略。纯函数式：相同输入总是得到相同结果，
// 所有字段错误一次性返回，不短路。
type ProductValidator struct {
	maxPrice float64
}

// NewProductValidator 创建校验器；maxPrice <= 0 时使用默认上限
func NewProductValidator(maxPrice float64) *ProductValidator {
	if maxPrice <= 0 {
		maxPrice = domain.DefaultMaxPrice
	}
	return &ProductValidator{maxPrice: maxPrice}
}

// Validate 校验原始输入。price 接受网关收到的原始形态：
// JSON number（float64/json.Number）、字符串或缺失（nil）。
func (v *ProductValidator) Validate(name string, price any) (ValidatedProduct, []FieldError) {
	var errs []FieldError

	name = strings.TrimSpace(name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Reason: ReasonRequired})
	}

	value, priceErr := parsePrice(price)
	if priceErr != "" {
		errs = append(errs, FieldError{Field: "price", Reason: priceErr})
	} else if value > v.maxPrice {
		errs = append(errs, FieldError{Field: "price", Reason: ReasonTooLarge})
	}

	if len(errs) > 0 {
		return ValidatedProduct{}, errs
	}
	return ValidatedProduct{Name: name, Price: value}, nil
}

// parsePrice 将原始 price 规范化为 float64；返回空串表示成功
func parsePrice(price any) (float64, string) {
	var value float64

	switch p := price.(type) {
	case nil:
		return 0, ReasonRequired
	case float64:
		value = p
	case float32:
		value = float64(p)
	case int:
		value = float64(p)
	case int64:
		value = float64(p)
	case json.Number:
		v, err := p.Float64()
		if err != nil {
			return 0, ReasonNotNumber
		}
		value = v
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return 0, ReasonRequired
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ReasonNotNumber
		}
		value = v
	default:
		return 0, ReasonNotNumber
	}

	// ParseFloat 接受 "NaN"/"Inf"，但非有限值不是合法价格，
	// 且 NaN 会绕过上限比较
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ReasonNotNumber
	}
	return value, ""
}
