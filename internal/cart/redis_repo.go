package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/middas-stores/storefront-gateway/pkg/redis"
)

// redisStore is the slice of the redis client the repository needs.
type redisStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisRepository keeps each session's cart as a JSON blob under one key.
type RedisRepository struct {
	store redisStore
	ttl   time.Duration
}

// NewRedisRepository binds the repository to the redis client. A zero ttl
// keeps carts until explicitly deleted.
func NewRedisRepository(store redisStore, ttl time.Duration) (*RedisRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &RedisRepository{store: store, ttl: ttl}, nil
}

func (r *RedisRepository) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	raw, err := r.store.Get(ctx, r.store.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (r *RedisRepository) Save(ctx context.Context, sessionID string, items []LineItem) error {
	if len(items) == 0 {
		return r.Delete(ctx, sessionID)
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.store.Set(ctx, r.store.CartKey(sessionID), payload, r.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, r.store.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
