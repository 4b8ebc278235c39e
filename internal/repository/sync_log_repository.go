package repository

import (
	"errors"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// SyncLogRepository is the sync log data access interface.
type SyncLogRepository interface {
	Create(log *models.SyncLog) error
	UpdateFields(id uint, updates map[string]interface{}) error
	GetLatest(syncType string) (*models.SyncLog, error)
	List(syncType string, page, pageSize int) ([]models.SyncLog, int64, error)
	WithTx(tx *gorm.DB) *GormSyncLogRepository
}

// GormSyncLogRepository is the GORM implementation.
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewSyncLogRepository creates a sync log repository.
func NewSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormSyncLogRepository) WithTx(tx *gorm.DB) *GormSyncLogRepository {
	if tx == nil {
		return r
	}
	return &GormSyncLogRepository{db: tx}
}

// Create inserts a sync log row.
func (r *GormSyncLogRepository) Create(log *models.SyncLog) error {
	return r.db.Create(log).Error
}

// UpdateFields applies a partial update.
func (r *GormSyncLogRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.SyncLog{}).Where("id = ?", id).Updates(updates).Error
}

// GetLatest returns the most recent run of a sync type.
func (r *GormSyncLogRepository) GetLatest(syncType string) (*models.SyncLog, error) {
	var log models.SyncLog
	if err := r.db.Where("sync_type = ?", syncType).
		Order("id desc").
		First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

// List returns sync runs, newest first.
func (r *GormSyncLogRepository) List(syncType string, page, pageSize int) ([]models.SyncLog, int64, error) {
	query := r.db.Model(&models.SyncLog{})
	if syncType != "" {
		query = query.Where("sync_type = ?", syncType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.SyncLog
	query = applyPagination(query, page, pageSize)
	if err := query.Order("id desc").Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
