package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wyfcoding/productcatalog/internal/access"
)

func TestAllow(t *testing.T) {
	anonymous := access.Anonymous
	user := access.Actor{Authenticated: true, UserID: 1, Email: "user@example.com"}
	admin := access.Actor{Authenticated: true, Admin: true, UserID: 2, Email: "admin@example.com"}

	tests := []struct {
		name  string
		actor access.Actor
		op    access.Operation
		want  bool
	}{
		// Web 面：所有操作要求登录
		{"anonymous cannot browse web list", anonymous, access.WebListProducts, false},
		{"user can browse web list", user, access.WebListProducts, true},
		{"admin can browse web list", admin, access.WebListProducts, true},

		// Web 写操作额外要求管理员
		{"anonymous cannot open create form", anonymous, access.WebCreateForm, false},
		{"user cannot open create form", user, access.WebCreateForm, false},
		{"admin can open create form", admin, access.WebCreateForm, true},
		{"user cannot create via web", user, access.WebCreateProduct, false},
		{"admin can create via web", admin, access.WebCreateProduct, true},
		{"user cannot open edit form", user, access.WebEditForm, false},
		{"admin can open edit form", admin, access.WebEditForm, true},
		{"user cannot update via web", user, access.WebUpdateProduct, false},
		{"admin can update via web", admin, access.WebUpdateProduct, true},
		{"user cannot delete via web", user, access.WebDeleteProduct, false},
		{"admin can delete via web", admin, access.WebDeleteProduct, true},

		// API 面：读写开放
		{"anonymous can list via api", anonymous, access.APIListProducts, true},
		{"anonymous can show via api", anonymous, access.APIShowProduct, true},
		{"anonymous can create via api", anonymous, access.APICreateProduct, true},
		{"anonymous can update via api", anonymous, access.APIUpdateProduct, true},

		// API 删除仅要求登录，不要求管理员
		{"anonymous cannot delete via api", anonymous, access.APIDeleteProduct, false},
		{"user can delete via api", user, access.APIDeleteProduct, true},
		{"admin can delete via api", admin, access.APIDeleteProduct, true},

		// 未知操作一律拒绝
		{"unknown operation denied for admin", admin, access.Operation("web.products.publish"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Allow(tt.actor, tt.op))
		})
	}
}

func TestAdminFlagAloneIsNotEnough(t *testing.T) {
	// Admin 标志在未登录时无效（会话过期后残留的标志不应放行）
	stale := access.Actor{Admin: true}
	assert.False(t, access.Allow(stale, access.WebCreateProduct))
	assert.False(t, access.Allow(stale, access.APIDeleteProduct))
}
