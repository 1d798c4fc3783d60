package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wyfcoding/productcatalog/internal/auth/domain"
	"golang.org/x/crypto/bcrypt"
)

// RegisterCommand 注册命令
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// LoginCommand 登录命令
type LoginCommand struct {
	Email    string
	Password string
}

// AuthService 认证应用服务：注册、登录、会话管理
type AuthService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	sessionTTL time.Duration
}

// NewAuthService 创建认证服务；ttl <= 0 时默认 24 小时
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

// Register 注册用户，密码以 bcrypt 哈希存储
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(cmd.Name, cmd.Email, string(hash), cmd.IsAdmin)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭证并创建会话
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Logout 删除会话；token 不存在时为空操作
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// SessionByToken 按 token 查会话；未命中或已过期返回 (nil, nil)
func (s *AuthService) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired() {
		return nil, nil
	}
	return session, nil
}
