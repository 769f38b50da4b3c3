package repository

import (
	"github.com/ansokolov/CourseFox/app/models"
	"gorm.io/gorm"
)

// moduleRepository implements the ModuleRepository interface
type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository creates a new module repository instance
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

// GetByID retrieves a course module by its ID
func (r *moduleRepository) GetByID(id uint) (*models.Module, error) {
	var module models.Module
	err := r.db.First(&module, id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// GetBySlug retrieves a course module by its slug
func (r *moduleRepository) GetBySlug(slug string) (*models.Module, error) {
	var module models.Module
	err := r.db.Where("slug = ?", slug).First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// List retrieves a paginated list of modules in course order
func (r *moduleRepository) List(offset, limit int) ([]models.Module, error) {
	var modules []models.Module
	err := r.db.Order("position ASC").Offset(offset).Limit(limit).Find(&modules).Error
	return modules, err
}

// Count returns the total number of modules
func (r *moduleRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Module{}).Count(&count).Error
	return count, err
}
