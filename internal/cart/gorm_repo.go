package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/middas-stores/storefront-gateway/pkg/db/models"
)

// GormRepository keeps each session's cart as one cart_records row with the
// line-item list serialized to JSON.
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository binds the repository to the provided GORM handle.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &GormRepository{db: db}, nil
}

func (r *GormRepository) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(record.Items), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

func (r *GormRepository) Save(ctx context.Context, sessionID string, items []LineItem) error {
	if len(items) == 0 {
		return r.Delete(ctx, sessionID)
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	record := models.CartRecord{
		SessionID: sessionID,
		Items:     string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
