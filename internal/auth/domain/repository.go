package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials 登录失败；不区分"邮箱不存在"与"密码错误"
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken 注册邮箱已被占用
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository 用户仓储接口；GetByEmail 未命中返回 (nil, nil)
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}
