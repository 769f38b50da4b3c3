package models

import "time"

const (
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusPastDue   = "past_due"
)

// Subscription mirrors the payment bot's subscription state. This service only
// reads it; rows are written by the external billing collaborator.
type Subscription struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	TelegramID     int64      `gorm:"index" json:"telegram_id"`
	PaymentSystem  string     `gorm:"type:varchar(20)" json:"payment_system"`
	SubscriptionID string     `gorm:"type:varchar(191);uniqueIndex" json:"subscription_id"`
	OrderID        string     `gorm:"type:varchar(191);index" json:"order_id"`
	Status         string     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	Amount         float64    `json:"amount"`
	Currency       string     `gorm:"type:varchar(8);default:'EUR'" json:"currency"`
	ActivatedAt    *time.Time `gorm:"type:timestamp;default:null" json:"activated_at,omitempty"`
	ExpiresAt      *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CancelledAt    *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription currently grants content access.
func (s *Subscription) IsActive() bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(time.Now())
}
