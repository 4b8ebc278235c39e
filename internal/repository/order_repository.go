package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/constants"
	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// OrderListFilter narrows order list queries.
type OrderListFilter struct {
	CustomerID  uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// OrderRepository is the order data access interface.
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	GetByIikoOrderID(iikoOrderID string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	ListActiveExternal() ([]models.Order, error)
	CountByCustomerAndPromo(customerID, promoID uint) (int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository is the GORM implementation.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create inserts an order with its items.
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches an order with items by id.
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").Preload("Customer").Preload("Branch").
		First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo fetches an order by its number.
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").
		Where("order_no = ?", strings.TrimSpace(orderNo)).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIikoOrderID fetches an order by its external iiko id.
func (r *GormOrderRepository) GetByIikoOrderID(iikoOrderID string) (*models.Order, error) {
	trimmed := strings.TrimSpace(iikoOrderID)
	if trimmed == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Preload("Items").
		Where("iiko_order_id = ?", trimmed).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders matching the filter.
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	var orders []models.Order
	query := r.db.Model(&models.Order{})

	if filter.CustomerID != 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListActiveExternal returns non-terminal orders that carry an iiko id,
// the working set of the status monitor.
func (r *GormOrderRepository) ListActiveExternal() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.
		Where("iiko_order_id <> ''").
		Where("status NOT IN ?", []string{constants.OrderStatusDelivered, constants.OrderStatusCancelled}).
		Order("id asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByCustomerAndPromo counts a customer's orders that redeemed a promo.
func (r *GormOrderRepository) CountByCustomerAndPromo(customerID, promoID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Order{}).
		Where("customer_id = ? AND promo_code_id = ?", customerID, promoID).
		Where("status <> ?", constants.OrderStatusCancelled).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus updates the order status along with extra fields.
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateFields applies a partial update.
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}
