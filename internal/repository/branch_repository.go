package repository

import (
	"errors"
	"strings"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// BranchRepository is the branch data access interface.
type BranchRepository interface {
	GetByID(id uint) (*models.Branch, error)
	GetByTerminalID(terminalID string) (*models.Branch, error)
	List(activeOnly bool) ([]models.Branch, error)
	Create(branch *models.Branch) error
	WithTx(tx *gorm.DB) *GormBranchRepository
}

// GormBranchRepository is the GORM implementation.
type GormBranchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a branch repository.
func NewBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormBranchRepository) WithTx(tx *gorm.DB) *GormBranchRepository {
	if tx == nil {
		return r
	}
	return &GormBranchRepository{db: tx}
}

// GetByID fetches a branch by id.
func (r *GormBranchRepository) GetByID(id uint) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// GetByTerminalID fetches a branch by its iiko terminal group id.
func (r *GormBranchRepository) GetByTerminalID(terminalID string) (*models.Branch, error) {
	trimmed := strings.TrimSpace(terminalID)
	if trimmed == "" {
		return nil, nil
	}
	var branch models.Branch
	if err := r.db.Where("iiko_terminal_id = ?", trimmed).First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

// List returns branches, optionally only active ones.
func (r *GormBranchRepository) List(activeOnly bool) ([]models.Branch, error) {
	var branches []models.Branch
	query := r.db.Order("id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// Create inserts a branch.
func (r *GormBranchRepository) Create(branch *models.Branch) error {
	return r.db.Create(branch).Error
}
