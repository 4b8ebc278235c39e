package models

import "time"

// Category is a menu category synced from iiko nomenclature groups.
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string `gorm:"size:255;not null" json:"name"`
	IikoID    string `gorm:"size:64;uniqueIndex" json:"iiko_id"`
	SortOrder int    `gorm:"default:0" json:"sort_order"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}
