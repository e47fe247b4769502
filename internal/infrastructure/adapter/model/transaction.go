package model

import (
	"time"
)

// Transaction represents the database model for ledger entries. Rows are
// append-only; only the status columns ever change after insert.
type Transaction struct {
	ID                   string    `gorm:"primaryKey;size:36"`
	UserID               string    `gorm:"not null;index;size:64"`
	Type                 string    `gorm:"not null;size:32;index"`
	Amount               int64     `gorm:"not null"`
	Currency             string    `gorm:"not null;size:3"`
	Description          string    `gorm:"type:text"`
	Status               string    `gorm:"not null;size:16;index"`
	Bucket               string    `gorm:"not null;size:32"`
	CreatedAt            time.Time `gorm:"not null;index"`
	ProcessedAt          *time.Time
	Metadata             string  `gorm:"type:text"`
	PaymentMethodID      string  `gorm:"size:64"`
	RelatedTransactionID string  `gorm:"size:36;index"`
	IdempotencyKey       *string `gorm:"uniqueIndex;size:64"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
