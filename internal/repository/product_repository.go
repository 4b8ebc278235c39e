package repository

import (
	"errors"
	"strings"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// ProductRepository is the product data access interface.
type ProductRepository interface {
	GetByID(id uint) (*models.Product, error)
	GetByIikoID(iikoID string) (*models.Product, error)
	ListAll() ([]models.Product, error)
	ListByCategory(categoryID uint, availableOnly bool) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	UpdateFields(id uint, updates map[string]interface{}) error
	ReplaceSizes(productID uint, sizes []models.ProductSize) error
	WithTx(tx *gorm.DB) *GormProductRepository
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// GetByID fetches a product by id.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Sizes").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByIikoID fetches a product by its iiko id.
func (r *GormProductRepository) GetByIikoID(iikoID string) (*models.Product, error) {
	trimmed := strings.TrimSpace(iikoID)
	if trimmed == "" {
		return nil, nil
	}
	var product models.Product
	if err := r.db.Where("iiko_id = ?", trimmed).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// ListAll returns every product.
func (r *GormProductRepository) ListAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns products of a category in display order.
func (r *GormProductRepository) ListByCategory(categoryID uint, availableOnly bool) ([]models.Product, error) {
	var products []models.Product
	query := r.db.Where("category_id = ?", categoryID).Order("sort_order asc, id asc")
	if availableOnly {
		query = query.Where("is_available = ?", true)
	}
	if err := query.Preload("Sizes").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product.
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update persists the full product row.
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// UpdateFields applies a partial update.
func (r *GormProductRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceSizes swaps the size rows of a product wholesale.
func (r *GormProductRepository) ReplaceSizes(productID uint, sizes []models.ProductSize) error {
	if err := r.db.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if len(sizes) == 0 {
		return nil
	}
	for i := range sizes {
		sizes[i].ID = 0
		sizes[i].ProductID = productID
	}
	return r.db.Create(&sizes).Error
}
