package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/middas-stores/storefront-gateway/pkg/db/models"
	"github.com/middas-stores/storefront-gateway/pkg/redis"
)

// TokenRepository stores the backend bearer token per storefront session.
// Load returns an empty token, not an error, when none is stored.
type TokenRepository interface {
	Load(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, token string) error
	Delete(ctx context.Context, sessionID string) error
}

// GormTokenRepository keeps tokens in the auth_tokens table.
type GormTokenRepository struct {
	db *gorm.DB
}

func NewGormTokenRepository(db *gorm.DB) (*GormTokenRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &GormTokenRepository{db: db}, nil
}

func (r *GormTokenRepository) Load(ctx context.Context, sessionID string) (string, error) {
	var record models.AuthToken
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load auth token: %w", err)
	}
	return record.Token, nil
}

func (r *GormTokenRepository) Save(ctx context.Context, sessionID, token string) error {
	record := models.AuthToken{
		SessionID: sessionID,
		Token:     token,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	return nil
}

func (r *GormTokenRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.AuthToken{}).Error
	if err != nil {
		return fmt.Errorf("delete auth token: %w", err)
	}
	return nil
}

type redisTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AuthTokenKey(sessionID string) string
}

// RedisTokenRepository keeps tokens in redis with the session TTL.
type RedisTokenRepository struct {
	store redisTokenStore
	ttl   time.Duration
}

func NewRedisTokenRepository(store redisTokenStore, ttl time.Duration) (*RedisTokenRepository, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	return &RedisTokenRepository{store: store, ttl: ttl}, nil
}

func (r *RedisTokenRepository) Load(ctx context.Context, sessionID string) (string, error) {
	token, err := r.store.Get(ctx, r.store.AuthTokenKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("load auth token: %w", err)
	}
	return token, nil
}

func (r *RedisTokenRepository) Save(ctx context.Context, sessionID, token string) error {
	if err := r.store.Set(ctx, r.store.AuthTokenKey(sessionID), token, r.ttl); err != nil {
		return fmt.Errorf("save auth token: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.store.Del(ctx, r.store.AuthTokenKey(sessionID)); err != nil {
		return fmt.Errorf("delete auth token: %w", err)
	}
	return nil
}
