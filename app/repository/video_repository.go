package repository

import (
	"github.com/ansokolov/CourseFox/app/models"
	"gorm.io/gorm"
)

// videoRepository implements the VideoRepository interface
type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository instance
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

// GetByID retrieves a video by its ID
func (r *videoRepository) GetByID(id uint) (*models.Video, error) {
	var video models.Video
	err := r.db.First(&video, id).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// ListByModuleID retrieves the videos of a module in playback order
func (r *videoRepository) ListByModuleID(moduleID uint) ([]models.Video, error) {
	var videos []models.Video
	err := r.db.Where("module_id = ?", moduleID).Order("position ASC").Find(&videos).Error
	return videos, err
}
