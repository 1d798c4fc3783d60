package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wyfcoding/productcatalog/internal/auth/domain"
)

type sessionRedisRepository struct {
	client redis.UniversalClient
	prefix string
}

func NewSessionRepository(client redis.UniversalClient) domain.SessionRepository {
	return &sessionRedisRepository{
		client: client,
		prefix: "catalog:session:",
	}
}

func (r *sessionRedisRepository) Save(ctx context.Context, session *domain.Session) error {
	key := r.prefix + session.Token
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *sessionRedisRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRedisRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.prefix+token).Err()
}
