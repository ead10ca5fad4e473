package models

import "time"

// AuthToken stores the commerce-backend bearer token tied to a storefront
// session. Discarded silently when the backend stops honoring it.
type AuthToken struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Token     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
