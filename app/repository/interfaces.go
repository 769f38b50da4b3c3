package repository

import (
	"github.com/ansokolov/CourseFox/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	UpsertByTelegramID(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByTelegramID(telegramID int64) (*models.User, error)
	Update(user *models.User) error
	Count() (int64, error)
}

// SubscriptionRepository reads the subscription state owned by the billing bot
type SubscriptionRepository interface {
	GetCurrentByUserID(userID uint) (*models.Subscription, error)
	GetActiveByUserID(userID uint) (*models.Subscription, error)
}

// ModuleRepository defines the interface for course module operations
type ModuleRepository interface {
	GetByID(id uint) (*models.Module, error)
	GetBySlug(slug string) (*models.Module, error)
	List(offset, limit int) ([]models.Module, error)
	Count() (int64, error)
}

// VideoRepository defines the interface for video operations
type VideoRepository interface {
	GetByID(id uint) (*models.Video, error)
	ListByModuleID(moduleID uint) ([]models.Video, error)
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Subscription SubscriptionRepository
	Module       ModuleRepository
	Video        VideoRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Module:       NewModuleRepository(db),
		Video:        NewVideoRepository(db),
	}
}
