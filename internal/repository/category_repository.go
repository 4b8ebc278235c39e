package repository

import (
	"errors"
	"strings"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository is the category data access interface.
type CategoryRepository interface {
	GetByID(id uint) (*models.Category, error)
	GetByIikoID(iikoID string) (*models.Category, error)
	ListActive() ([]models.Category, error)
	Create(category *models.Category) error
	Update(category *models.Category) error
	WithTx(tx *gorm.DB) *GormCategoryRepository
}

// GormCategoryRepository is the GORM implementation.
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository.
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCategoryRepository) WithTx(tx *gorm.DB) *GormCategoryRepository {
	if tx == nil {
		return r
	}
	return &GormCategoryRepository{db: tx}
}

// GetByID fetches a category by id.
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// GetByIikoID fetches a category by its iiko group id.
func (r *GormCategoryRepository) GetByIikoID(iikoID string) (*models.Category, error) {
	trimmed := strings.TrimSpace(iikoID)
	if trimmed == "" {
		return nil, nil
	}
	var category models.Category
	if err := r.db.Where("iiko_id = ?", trimmed).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// ListActive returns active categories in display order.
func (r *GormCategoryRepository) ListActive() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Where("is_active = ?", true).
		Order("sort_order asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create inserts a category.
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// Update persists the full category row.
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}
