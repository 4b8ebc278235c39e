package models

import "time"

// Branch is a restaurant location mapped to an iiko terminal group.
type Branch struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Address string `gorm:"size:512" json:"address"`
	Phone   string `gorm:"size:32" json:"phone"`

	IikoOrganizationID string `gorm:"size:64" json:"iiko_organization_id"`
	IikoTerminalID     string `gorm:"size:64;index" json:"iiko_terminal_id"`

	IsActive          bool `gorm:"default:true" json:"is_active"`
	IsAcceptingOrders bool `gorm:"default:true" json:"is_accepting_orders"`
}
