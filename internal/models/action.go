package models

import "time"

// Action is an automatic promotion applied without a code.
type Action struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name string `gorm:"size:255;not null" json:"name"`
	// Type is gift_product / cart_discount.
	Type     string `gorm:"size:32;not null" json:"type"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	MinOrderAmount Money     `gorm:"type:decimal(12,2);default:0" json:"min_order_amount"`
	DiscountValue  Money     `gorm:"type:decimal(12,2);default:0" json:"discount_value"`
	GiftProductIDs UintArray `gorm:"type:text" json:"gift_product_ids"`

	Priority int `gorm:"default:0" json:"priority"`
}
