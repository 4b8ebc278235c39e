package repository

import (
	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// WebhookEventRepository is the webhook event log data access interface.
type WebhookEventRepository interface {
	Create(event *models.WebhookEvent) error
	UpdateFields(id uint, updates map[string]interface{}) error
	ListUnprocessed(limit int) ([]models.WebhookEvent, error)
	WithTx(tx *gorm.DB) *GormWebhookEventRepository
}

// GormWebhookEventRepository is the GORM implementation.
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a webhook event repository.
func NewWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormWebhookEventRepository) WithTx(tx *gorm.DB) *GormWebhookEventRepository {
	if tx == nil {
		return r
	}
	return &GormWebhookEventRepository{db: tx}
}

// Create appends an event row.
func (r *GormWebhookEventRepository) Create(event *models.WebhookEvent) error {
	return r.db.Create(event).Error
}

// UpdateFields applies a partial update.
func (r *GormWebhookEventRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

// ListUnprocessed returns events that still need processing.
func (r *GormWebhookEventRepository) ListUnprocessed(limit int) ([]models.WebhookEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var events []models.WebhookEvent
	if err := r.db.Where("processed = ?", false).
		Order("id asc").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
