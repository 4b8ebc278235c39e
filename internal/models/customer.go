package models

import "time"

// Customer is a delivery customer, identified by phone.
type Customer struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Phone          string `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	Name           string `gorm:"size:255" json:"name"`
	TelegramID     int64  `gorm:"index" json:"telegram_id"`
	IikoCustomerID string `gorm:"size:64;index" json:"iiko_customer_id"`

	BonusPoints       Money      `gorm:"type:decimal(12,2);default:0" json:"bonus_points"`
	TotalOrdersCount  int        `gorm:"default:0" json:"total_orders_count"`
	TotalOrdersAmount Money      `gorm:"type:decimal(14,2);default:0" json:"total_orders_amount"`
	LastOrderAt       *time.Time `json:"last_order_at"`

	IsBlocked bool `gorm:"default:false" json:"is_blocked"`
}
