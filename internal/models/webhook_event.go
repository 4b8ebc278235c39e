package models

import "time"

// WebhookEvent is an append-only log of inbound iiko webhook deliveries.
type WebhookEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	EventType string `gorm:"size:64;index" json:"event_type"`
	EventID   string `gorm:"size:64;index" json:"event_id"`
	Payload   JSON   `gorm:"type:text" json:"payload"`

	Processed bool   `gorm:"default:false;index" json:"processed"`
	Error     string `gorm:"size:1024" json:"error"`
}
