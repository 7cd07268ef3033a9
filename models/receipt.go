package models

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the persisted record of a verified payment, backing the
// confirmation screen.
type Receipt struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(64);not null;index" json:"user_id"`
	PaymentID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_id"`
	OrderID   string    `gorm:"type:varchar(64);not null;index" json:"order_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	PaidAt    time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
