package repository

import (
	"errors"
	"strings"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository is the customer data access interface.
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	GetOrCreateByPhone(phone, name string, telegramID int64) (*models.Customer, error)
	Update(customer *models.Customer) error
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormCustomerRepository
}

// GormCustomerRepository is the GORM implementation.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) *GormCustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID fetches a customer by id.
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByPhone fetches a customer by normalized phone.
func (r *GormCustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.Where("phone = ?", strings.TrimSpace(phone)).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetOrCreateByPhone fetches a customer by phone, creating one if absent.
func (r *GormCustomerRepository) GetOrCreateByPhone(phone, name string, telegramID int64) (*models.Customer, error) {
	existing, err := r.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	customer := &models.Customer{
		Phone:      strings.TrimSpace(phone),
		Name:       strings.TrimSpace(name),
		TelegramID: telegramID,
	}
	if err := r.db.Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Update persists the full customer row.
func (r *GormCustomerRepository) Update(customer *models.Customer) error {
	return r.db.Save(customer).Error
}

// UpdateFields applies a partial update.
func (r *GormCustomerRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error
}
