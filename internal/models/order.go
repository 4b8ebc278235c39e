package models

import "time"

// Order is a delivery order.
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderNo    string `gorm:"size:64;uniqueIndex;not null" json:"order_no"`
	CustomerID uint   `gorm:"index" json:"customer_id"`
	BranchID   uint   `gorm:"index" json:"branch_id"`
	Status     string `gorm:"size:32;index;default:new" json:"status"`

	Subtotal       Money `gorm:"type:decimal(12,2);default:0" json:"subtotal"`
	BonusApplied   Money `gorm:"type:decimal(12,2);default:0" json:"bonus_applied"`
	PromoDiscount  Money `gorm:"type:decimal(12,2);default:0" json:"promo_discount"`
	ActionDiscount Money `gorm:"type:decimal(12,2);default:0" json:"action_discount"`
	TotalDiscount  Money `gorm:"type:decimal(12,2);default:0" json:"total_discount"`
	FinalTotal     Money `gorm:"type:decimal(12,2);default:0" json:"final_total"`

	PromoCodeID *uint  `gorm:"index" json:"promo_code_id"`
	PromoCode   string `gorm:"size:64" json:"promo_code"`

	DeliveryType string `gorm:"size:32" json:"delivery_type"` // delivery / pickup
	Platform     string `gorm:"size:32" json:"platform"`
	Address      string `gorm:"size:512" json:"address"`
	Comment      string `gorm:"size:1024" json:"comment"`

	// External (iiko) tracking fields maintained by reconciliation. The
	// external id is the reconciliation idempotency key, unique once set.
	IikoOrderID        string     `gorm:"size:64;uniqueIndex:uniq_orders_iiko_order_id,where:iiko_order_id <> ''" json:"iiko_order_id"`
	IikoStatus         string     `gorm:"size:64" json:"iiko_status"`
	ExpectedDeliveryAt *time.Time `json:"expected_delivery_at"`
	ActualDeliveryAt   *time.Time `json:"actual_delivery_at"`
	DelayMinutes       int        `gorm:"default:0" json:"delay_minutes"`
	Details            JSON       `gorm:"type:text" json:"details"`

	Items    []OrderItem `json:"items,omitempty"`
	Customer *Customer   `json:"customer,omitempty"`
	Branch   *Branch     `json:"branch,omitempty"`
}

// OrderItem is a single order line. Gift lines carry a zero price.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID   uint   `gorm:"index;not null" json:"order_id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	Name      string `gorm:"size:255;not null" json:"name"`

	UnitPrice  Money `gorm:"type:decimal(12,2);default:0" json:"unit_price"`
	Quantity   int   `gorm:"default:1" json:"quantity"`
	TotalPrice Money `gorm:"type:decimal(12,2);default:0" json:"total_price"`

	IsGift bool `gorm:"default:false" json:"is_gift"`
}
