package models

import (
	"time"

	"gorm.io/gorm"
)

// WebhookEvent dead-letter record for carrier webhook deliveries that
// could not be applied; kept for manual reconciliation and retry
type WebhookEvent struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	AWBNumber  string         `gorm:"column:awb_number;index" json:"awb_number"`
	Status     string         `gorm:"index;not null;default:'failed'" json:"status"`
	Payload    string         `gorm:"type:text" json:"payload"`
	FailReason string         `gorm:"type:text" json:"fail_reason"`
	RetryCount int            `gorm:"not null;default:0" json:"retry_count"`
	AppliedAt  *time.Time     `json:"applied_at"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName table name
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
