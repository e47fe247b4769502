package entity

import (
	"strings"
	"time"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
)

// WalletBalance is the per-user projection of the ledger. All monetary fields
// are non-negative int64 amounts in minor units. The row is provisioned lazily
// on first access, mutated only by applying ledger entries, and never deleted.
type WalletBalance struct {
	UserID           string
	Available        int64
	Pending          int64
	PlatformCredit   int64
	ReferralEarnings int64
	Currency         string
	LastUpdated      time.Time
}

// NewZeroBalance creates the initial balance row for a user
func NewZeroBalance(userID, currency string, timeProvider coreport.TimeProvider) (*WalletBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.ErrInvalidUserID
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}

	return &WalletBalance{
		UserID:      userID,
		Currency:    strings.ToUpper(currency),
		LastUpdated: timeProvider.Now(),
	}, nil
}

// ApplyEntry folds a completed ledger entry into the projection. A debit that
// would drive the target bucket negative is rejected, which keeps the
// non-negativity invariant without consulting the whole ledger.
func (b *WalletBalance) ApplyEntry(t *Transaction, timeProvider coreport.TimeProvider) error {
	if t.Status != StatusCompleted {
		return errs.ErrInvalidStatusTransition
	}

	current := b.Bucket(t.Bucket)
	next := current + t.Amount
	if next < 0 {
		return errs.NewInsufficientBalanceError(b.UserID, string(t.Bucket), t.Magnitude(), current)
	}

	b.setBucket(t.Bucket, next)
	b.LastUpdated = timeProvider.Now()
	return nil
}

// Bucket returns the amount held in the named bucket
func (b *WalletBalance) Bucket(bucket BalanceBucket) int64 {
	switch bucket {
	case BucketPending:
		return b.Pending
	case BucketPlatformCredit:
		return b.PlatformCredit
	case BucketReferralEarnings:
		return b.ReferralEarnings
	default:
		return b.Available
	}
}

func (b *WalletBalance) setBucket(bucket BalanceBucket, amount int64) {
	switch bucket {
	case BucketPending:
		b.Pending = amount
	case BucketPlatformCredit:
		b.PlatformCredit = amount
	case BucketReferralEarnings:
		b.ReferralEarnings = amount
	default:
		b.Available = amount
	}
}

// Total returns the signed sum across all buckets
func (b *WalletBalance) Total() int64 {
	return b.Available + b.Pending + b.PlatformCredit + b.ReferralEarnings
}

// BucketTotals holds per-bucket signed sums computed from the ledger
type BucketTotals struct {
	Available        int64
	Pending          int64
	PlatformCredit   int64
	ReferralEarnings int64
}

// Total returns the signed sum across all buckets
func (s BucketTotals) Total() int64 {
	return s.Available + s.Pending + s.PlatformCredit + s.ReferralEarnings
}

// Matches reports whether the projection agrees with the ledger sums
func (b *WalletBalance) Matches(sums BucketTotals) bool {
	return b.Available == sums.Available &&
		b.Pending == sums.Pending &&
		b.PlatformCredit == sums.PlatformCredit &&
		b.ReferralEarnings == sums.ReferralEarnings
}

// ResetTo overwrites the projection with ledger-derived sums. Used by
// reconciliation to repair drift; the ledger remains the source of truth.
func (b *WalletBalance) ResetTo(sums BucketTotals, timeProvider coreport.TimeProvider) {
	b.Available = sums.Available
	b.Pending = sums.Pending
	b.PlatformCredit = sums.PlatformCredit
	b.ReferralEarnings = sums.ReferralEarnings
	b.LastUpdated = timeProvider.Now()
}
