package models

import "time"

// Product is a menu item synced from iiko nomenclature.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CategoryID  uint   `gorm:"index" json:"category_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Price       Money  `gorm:"type:decimal(12,2);default:0" json:"price"`
	ImageURL    string `gorm:"size:512" json:"image_url"`

	IikoID string `gorm:"size:64;uniqueIndex" json:"iiko_id"`

	// Availability is flipped by stop-list sync, rows are never deleted.
	IsAvailable bool `gorm:"default:true" json:"is_available"`
	SortOrder   int  `gorm:"default:0" json:"sort_order"`

	Sizes []ProductSize `json:"sizes,omitempty"`
}

// ProductSize is a per-size price row, replaced wholesale on menu sync.
type ProductSize struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProductID  uint   `gorm:"index;not null" json:"product_id"`
	Name       string `gorm:"size:255" json:"name"`
	IikoSizeID string `gorm:"size:64" json:"iiko_size_id"`
	Price      Money  `gorm:"type:decimal(12,2);default:0" json:"price"`
}
