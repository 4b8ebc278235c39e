package repository

import (
	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// ActionRepository is the automatic action data access interface.
type ActionRepository interface {
	ListActive() ([]models.Action, error)
	Create(action *models.Action) error
	WithTx(tx *gorm.DB) *GormActionRepository
}

// GormActionRepository is the GORM implementation.
type GormActionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates an action repository.
func NewActionRepository(db *gorm.DB) *GormActionRepository {
	return &GormActionRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormActionRepository) WithTx(tx *gorm.DB) *GormActionRepository {
	if tx == nil {
		return r
	}
	return &GormActionRepository{db: tx}
}

// ListActive returns active actions ordered by priority.
func (r *GormActionRepository) ListActive() ([]models.Action, error) {
	var actions []models.Action
	if err := r.db.Where("is_active = ?", true).
		Order("priority desc, id asc").
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// Create inserts an action.
func (r *GormActionRepository) Create(action *models.Action) error {
	return r.db.Create(action).Error
}
