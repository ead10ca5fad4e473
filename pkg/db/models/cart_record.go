package models

import "time"

// CartRecord is the durable form of a session's cart: the full line-item list
// serialized as JSON under a single row, rewritten after every mutation.
type CartRecord struct {
	SessionID string `gorm:"primaryKey;size:64"`
	Items     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (CartRecord) TableName() string {
	return "cart_records"
}
