// Package memory 提供内存版用户与会话仓储，用于测试与 dev 模式
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wyfcoding/productcatalog/internal/auth/domain"
)

type userRepository struct {
	mu     sync.RWMutex
	nextID uint
	users  map[uint]domain.User
}

func NewUserRepository() domain.UserRepository {
	return &userRepository{nextID: 1, users: make(map[uint]domain.User)}
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewSessionRepository() domain.SessionRepository {
	return &sessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = *session
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}
