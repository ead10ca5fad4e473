package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// InflightLocker guards the one-submission-at-a-time rule per session.
type InflightLocker interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type redisLockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
}

// RedisLocker takes the in-flight lock with SetNX so a crashed submission
// frees itself after the TTL.
type RedisLocker struct {
	store redisLockStore
	ttl   time.Duration
}

func NewRedisLocker(store redisLockStore, ttl time.Duration) (*RedisLocker, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &RedisLocker{store: store, ttl: ttl}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (bool, error) {
	return l.store.SetNX(ctx, l.store.CheckoutLockKey(sessionID), "1", l.ttl)
}

func (l *RedisLocker) Release(ctx context.Context, sessionID string) error {
	return l.store.Del(ctx, l.store.CheckoutLockKey(sessionID))
}

// MemoryLocker is the single-instance fallback used when redis is disabled.
type MemoryLocker struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{inflight: map[string]struct{}{}}
}

func (l *MemoryLocker) Acquire(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.inflight[sessionID]; busy {
		return false, nil
	}
	l.inflight[sessionID] = struct{}{}
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inflight, sessionID)
	return nil
}
