package repository

import (
	"time"

	"github.com/ansokolov/CourseFox/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetCurrentByUserID returns the newest subscription row for the user.
// A missing row comes back as gorm.ErrRecordNotFound; callers treat that
// as an expired subscription, never as an error.
func (r *subscriptionRepository) GetCurrentByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetActiveByUserID returns the user's active, unexpired subscription.
func (r *subscriptionRepository) GetActiveByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)",
		userID, models.SubscriptionStatusActive, time.Now()).
		Order("expires_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
