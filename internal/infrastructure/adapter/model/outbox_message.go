package model

import (
	"time"
)

// OutboxMessage represents the database model for staged events
type OutboxMessage struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Topic         string    `gorm:"not null;size:128"`
	Payload       []byte    `gorm:"type:bytea"`
	Status        string    `gorm:"not null;size:16;index"`
	Attempts      int       `gorm:"not null;default:0"`
	NextAttemptAt time.Time `gorm:"not null;index"`
	LastError     string    `gorm:"type:text"`
	ClaimedAt     *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	PublishedAt   *time.Time
}

// TableName specifies the table name for OutboxMessage
func (OutboxMessage) TableName() string {
	return "outbox_messages"
}
