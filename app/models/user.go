package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ROLE_STUDENT = "student"
	ROLE_ADMIN   = "admin"
	ROLE_DEV     = "dev"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	Username   string    `gorm:"type:varchar(64)" json:"username" validate:"max=64"`
	FirstName  string    `gorm:"type:varchar(150)" json:"first_name" validate:"max=150"`
	LastName   string    `gorm:"type:varchar(150)" json:"last_name" validate:"max=150"`
	Role       string    `gorm:"type:varchar(20);default:'student'" json:"role" validate:"oneof=student admin dev"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// IsAdmin reports whether the user may access management endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN || u.Role == ROLE_DEV
}

// DisplayName returns the best human-readable name we have for the user.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return "student"
}
