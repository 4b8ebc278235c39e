package models

import "time"

// SyncLog is an append-only record of one sync run.
type SyncLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SyncType string `gorm:"size:32;index;not null" json:"sync_type"`
	Status   string `gorm:"size:16;index;default:running" json:"status"`
	RunID    string `gorm:"size:64;index" json:"run_id"`

	CategoriesCount int    `gorm:"default:0" json:"categories_count"`
	ProductsCount   int    `gorm:"default:0" json:"products_count"`
	Details         string `gorm:"type:text" json:"details"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}
