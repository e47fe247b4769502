package model

import (
	"time"
)

// WebhookActivity represents the database model for the webhook audit trail.
// Append-only: there is no update path through the repository.
type WebhookActivity struct {
	ID           string    `gorm:"primaryKey;size:36"`
	Provider     string    `gorm:"not null;size:64;index"`
	EventType    string    `gorm:"not null;size:128;index"`
	Payload      []byte    `gorm:"type:bytea"`
	Status       string    `gorm:"not null;size:16"`
	ErrorMessage string    `gorm:"type:text"`
	Timestamp    time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for WebhookActivity
func (WebhookActivity) TableName() string {
	return "webhook_activity"
}
