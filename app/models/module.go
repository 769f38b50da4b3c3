package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	Slug        string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description string    `gorm:"type:text" json:"description"`
	Position    int       `gorm:"default:0;index" json:"position"`
	IsFree      bool      `gorm:"default:false" json:"is_free"`
	Videos      []Video   `gorm:"foreignKey:ModuleID" json:"videos,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.UUID == "" {
		m.UUID = uuid.New().String()
	}
	return nil
}
