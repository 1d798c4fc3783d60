// Package access 集中定义操作级访问策略：actor × operation → allow
package access

// Actor 请求方的能力视图：匿名、已登录、管理员
type Actor struct {
	Authenticated bool
	Admin         bool
	UserID        uint
	Email         string
}

// Anonymous 匿名 actor
var Anonymous = Actor{}

// Operation 受策略保护的操作
type Operation string

const (
	// Web 浏览面
	WebListProducts   Operation = "web.products.list"
	WebCreateForm     Operation = "web.products.create_form"
	WebCreateProduct  Operation = "web.products.create"
	WebEditForm       Operation = "web.products.edit_form"
	WebUpdateProduct  Operation = "web.products.update"
	WebDeleteProduct  Operation = "web.products.delete"

	// JSON API 面
	APIListProducts  Operation = "api.products.list"
	APIShowProduct   Operation = "api.products.show"
	APICreateProduct Operation = "api.products.create"
	APIUpdateProduct Operation = "api.products.update"
	APIDeleteProduct Operation = "api.products.delete"
)

// Allow 判定 actor 是否可以执行 op。
// Web 面所有操作要求登录，写操作额外要求管理员；
// API 面的读写对外开放，仅删除要求登录（不要求管理员）。
// 两个面的差异来自既有行为，必须保持。
func Allow(actor Actor, op Operation) bool {
	switch op {
	case WebListProducts:
		return actor.Authenticated
	case WebCreateForm, WebCreateProduct, WebEditForm, WebUpdateProduct, WebDeleteProduct:
		return actor.Authenticated && actor.Admin
	case APIListProducts, APIShowProduct, APICreateProduct, APIUpdateProduct:
		return true
	case APIDeleteProduct:
		return actor.Authenticated
	default:
		return false
	}
}
