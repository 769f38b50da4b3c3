package repository

import (
	"github.com/ansokolov/CourseFox/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertByTelegramID creates the user on first login and refreshes the profile
// fields on every following login. The conflict target is the unique
// telegram_id column, so concurrent logins for the same identity cannot
// create duplicate rows. Role is deliberately not in the assignment list:
// the login path must never downgrade it.
func (r *userRepository) UpsertByTelegramID(user *models.User) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "telegram_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"username",
			"first_name",
			"last_name",
			"updated_at",
		}),
	}).Create(user).Error; err != nil {
		return err
	}

	// Re-read so the caller sees the persistent id and role.
	return r.db.Where("telegram_id = ?", user.TelegramID).First(user).Error
}

// GetByID retrieves a user by their internal ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTelegramID retrieves a user by their platform identity
func (r *userRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
