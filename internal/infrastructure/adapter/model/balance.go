package model

import (
	"time"
)

// WalletBalance represents the database model for wallet balance projections.
// The unique index on user_id makes lazy provisioning idempotent.
type WalletBalance struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement"`
	UserID           string    `gorm:"uniqueIndex;not null;size:64"`
	Available        int64     `gorm:"not null;default:0"`
	Pending          int64     `gorm:"not null;default:0"`
	PlatformCredit   int64     `gorm:"not null;default:0"`
	ReferralEarnings int64     `gorm:"not null;default:0"`
	Currency         string    `gorm:"not null;size:3"`
	LastUpdated      time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName specifies the table name for WalletBalance
func (WalletBalance) TableName() string {
	return "wallet_balances"
}
