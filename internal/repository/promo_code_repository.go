package repository

import (
	"errors"
	"strings"

	"github.com/carman72tmn/foodtech/internal/models"

	"gorm.io/gorm"
)

// PromoCodeRepository is the promo code data access interface.
type PromoCodeRepository interface {
	GetByID(id uint) (*models.PromoCode, error)
	GetByCode(code string) (*models.PromoCode, error)
	Create(promo *models.PromoCode) error
	Update(promo *models.PromoCode) error
	IncrementUses(id uint) (int64, error)
	WithTx(tx *gorm.DB) *GormPromoCodeRepository
}

// GormPromoCodeRepository is the GORM implementation.
type GormPromoCodeRepository struct {
	db *gorm.DB
}

// NewPromoCodeRepository creates a promo code repository.
func NewPromoCodeRepository(db *gorm.DB) *GormPromoCodeRepository {
	return &GormPromoCodeRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPromoCodeRepository) WithTx(tx *gorm.DB) *GormPromoCodeRepository {
	if tx == nil {
		return r
	}
	return &GormPromoCodeRepository{db: tx}
}

// GetByID fetches a promo code by id.
func (r *GormPromoCodeRepository) GetByID(id uint) (*models.PromoCode, error) {
	var promo models.PromoCode
	if err := r.db.First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// GetByCode fetches a promo code by its code, case-insensitive.
func (r *GormPromoCodeRepository) GetByCode(code string) (*models.PromoCode, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, nil
	}
	var promo models.PromoCode
	if err := r.db.Where("UPPER(code) = ?", strings.ToUpper(trimmed)).First(&promo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// Create inserts a promo code.
func (r *GormPromoCodeRepository) Create(promo *models.PromoCode) error {
	return r.db.Create(promo).Error
}

// Update persists the full promo code row.
func (r *GormPromoCodeRepository) Update(promo *models.PromoCode) error {
	return r.db.Save(promo).Error
}

// IncrementUses bumps the usage counter atomically. The guard keeps the
// counter from passing max_uses under concurrent checkouts; callers must
// treat zero affected rows as an exhausted code.
func (r *GormPromoCodeRepository) IncrementUses(id uint) (int64, error) {
	result := r.db.Model(&models.PromoCode{}).
		Where("id = ? AND (max_uses = 0 OR current_uses < max_uses)", id).
		UpdateColumn("current_uses", gorm.Expr("current_uses + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
