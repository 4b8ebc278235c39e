package models

import "time"

// PromoCode is a customer-entered discount code.
type PromoCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code        string `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Description string `gorm:"size:512" json:"description"`

	// Type is percent / fixed / gift / free_items / funnel.
	Type  string `gorm:"size:32;not null" json:"type"`
	Value Money  `gorm:"type:decimal(12,2);default:0" json:"value"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
	// TimeFrom / TimeUntil bound the time of day, "HH:MM", empty means unbounded.
	TimeFrom  string   `gorm:"size:5" json:"time_from"`
	TimeUntil string   `gorm:"size:5" json:"time_until"`
	ValidDays IntArray `gorm:"type:text" json:"valid_days"` // ISO weekday numbers, empty means all

	// UsageType is multi / single / single_per_user.
	UsageType      string `gorm:"size:32;default:multi" json:"usage_type"`
	MaxUses        int    `gorm:"default:0" json:"max_uses"` // 0 means unlimited
	CurrentUses    int    `gorm:"default:0" json:"current_uses"`
	FirstOrderOnly bool   `gorm:"default:false" json:"first_order_only"`

	MinOrderAmount     Money     `gorm:"type:decimal(12,2);default:0" json:"min_order_amount"`
	MinItemsCount      int       `gorm:"default:0" json:"min_items_count"`
	RequiredProductIDs UintArray `gorm:"type:text" json:"required_product_ids"`
	GiftProductIDs     UintArray `gorm:"type:text" json:"gift_product_ids"`

	Platforms     StringArray `gorm:"type:text" json:"platforms"`
	DeliveryTypes StringArray `gorm:"type:text" json:"delivery_types"`
	BranchIDs     UintArray   `gorm:"type:text" json:"branch_ids"`

	NoCombine bool `gorm:"default:false" json:"no_combine"`
}
