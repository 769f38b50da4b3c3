package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        string    `gorm:"type:char(36);uniqueIndex;not null" json:"uuid"`
	ModuleID    uint      `gorm:"not null;index" json:"module_id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title" validate:"required,max=255"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"type:varchar(512);not null" json:"url"`
	DurationSec int       `gorm:"default:0" json:"duration_sec"`
	Position    int       `gorm:"default:0;index" json:"position"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == "" {
		v.UUID = uuid.New().String()
	}
	return nil
}
