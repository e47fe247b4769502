package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
)

// TransactionType classifies a balance-affecting operation
type TransactionType string

// Transaction types
const (
	TypeDeposit            TransactionType = "deposit"
	TypeWithdrawal         TransactionType = "withdrawal"
	TypeTransfer           TransactionType = "transfer"
	TypeRefund             TransactionType = "refund"
	TypePlatformCredit     TransactionType = "platform_credit"
	TypeReferral           TransactionType = "referral"
	TypeReferralEarning    TransactionType = "referral_earning"
	TypeSponsorshipEarning TransactionType = "sponsorship_earning"
	TypePayment            TransactionType = "payment"
	TypeFee                TransactionType = "fee"
	TypePromotion          TransactionType = "promotion"
	TypeCredit             TransactionType = "credit"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants. Allowed transitions are
// pending -> completed | failed and completed -> refunded, never backwards.
const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusFailed    TransactionStatus = "failed"
	StatusRefunded  TransactionStatus = "refunded"
)

// BalanceBucket names the balance field a transaction settles into
type BalanceBucket string

// Balance buckets
const (
	BucketAvailable        BalanceBucket = "available"
	BucketPending          BalanceBucket = "pending"
	BucketPlatformCredit   BalanceBucket = "platform_credit"
	BucketReferralEarnings BalanceBucket = "referral_earnings"
)

// debitTypes lists the types that decrease the balance. Every other valid
// type is a credit. The caller always supplies a positive magnitude; the type
// alone determines the stored sign.
var debitTypes = map[TransactionType]struct{}{
	TypeWithdrawal: {},
	TypeTransfer:   {},
	TypePayment:    {},
	TypeFee:        {},
}

// bucketByType maps credit types to the bucket they settle into.
// Types absent from the map settle into the available bucket.
var bucketByType = map[TransactionType]BalanceBucket{
	TypePlatformCredit:  BucketPlatformCredit,
	TypePromotion:       BucketPlatformCredit,
	TypeCredit:          BucketPlatformCredit,
	TypeReferral:        BucketReferralEarnings,
	TypeReferralEarning: BucketReferralEarnings,
}

// Transaction represents one append-only ledger entry. The ledger is the
// source of truth for balances: the signed sum of a user's applied entries
// (completed, plus refunded originals) always equals the projected balance.
type Transaction struct {
	ID                   string            // Unique identifier for the ledger entry
	UserID               string            // Owner of the affected balance
	Type                 TransactionType   // Operation classification
	Amount               int64             // Signed amount in minor units; credits positive, debits negative
	Currency             string            // ISO 4217 code
	Description          string            // Human-readable description
	Status               TransactionStatus // Lifecycle status
	Bucket               BalanceBucket     // Balance bucket the entry settles into
	CreatedAt            time.Time         // When the entry was created
	ProcessedAt          *time.Time        // When the entry reached a terminal status
	Metadata             map[string]string // Normalized processor-facing metadata
	PaymentMethodID      string            // Optional payment method reference
	RelatedTransactionID string            // Links a refund to the entry it reverses
	IdempotencyKey       string            // Optional client-generated dedupe key
}

// NewTransaction creates a ledger entry from a positive magnitude. The sign
// convention is canonical: the type decides credit or debit, callers never
// pass signed amounts. Refund entries must be created with NewRefundTransaction.
func NewTransaction(
	id string,
	userID string,
	txType TransactionType,
	magnitude int64,
	currency string,
	description string,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.ErrInvalidUserID
	}
	if magnitude <= 0 {
		return nil, fmt.Errorf("%w: magnitude must be positive, got %d", errs.ErrInvalidAmount, magnitude)
	}
	if txType == TypeRefund {
		return nil, fmt.Errorf("%w: refunds must reference the transaction they reverse", errs.ErrInvalidTransactionType)
	}
	if !IsValidTransactionType(string(txType)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, err
	}

	amount := magnitude
	if _, debit := debitTypes[txType]; debit {
		amount = -magnitude
	}

	return &Transaction{
		ID:          id,
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Currency:    strings.ToUpper(currency),
		Description: description,
		Status:      StatusPending,
		Bucket:      bucketForType(txType),
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// NewRefundTransaction creates the reversing entry for a completed
// transaction. The refund is signed opposite to the original, settles into
// the same bucket, and its magnitude must not exceed the original's.
func NewRefundTransaction(
	id string,
	original *Transaction,
	magnitude int64,
	timeProvider coreport.TimeProvider,
) (*Transaction, error) {
	if original == nil {
		return nil, errs.ErrTransactionNotFound
	}
	if original.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: original status is %s", errs.ErrTransactionNotRefundable, original.Status)
	}
	if magnitude <= 0 {
		return nil, fmt.Errorf("%w: refund magnitude must be positive", errs.ErrInvalidAmount)
	}
	originalMagnitude := original.Amount
	if originalMagnitude < 0 {
		originalMagnitude = -originalMagnitude
	}
	if magnitude > originalMagnitude {
		return nil, fmt.Errorf("%w: %d > %d", errs.ErrRefundExceedsOriginal, magnitude, originalMagnitude)
	}

	amount := -magnitude
	if original.Amount < 0 {
		amount = magnitude
	}

	return &Transaction{
		ID:                   id,
		UserID:               original.UserID,
		Type:                 TypeRefund,
		Amount:               amount,
		Currency:             original.Currency,
		Description:          "Refund of " + original.ID,
		Status:               StatusPending,
		Bucket:               original.Bucket,
		CreatedAt:            timeProvider.Now(),
		RelatedTransactionID: original.ID,
	}, nil
}

// MarkCompleted transitions the entry to completed
func (t *Transaction) MarkCompleted(timeProvider coreport.TimeProvider) error {
	return t.transition(StatusCompleted, timeProvider)
}

// MarkFailed transitions the entry to failed
func (t *Transaction) MarkFailed(timeProvider coreport.TimeProvider) error {
	return t.transition(StatusFailed, timeProvider)
}

// MarkRefunded flags a completed entry as reversed. The entry's amount is
// never mutated; the reversal is a separate linked entry.
func (t *Transaction) MarkRefunded(timeProvider coreport.TimeProvider) error {
	return t.transition(StatusRefunded, timeProvider)
}

// transition enforces the status state machine
func (t *Transaction) transition(next TransactionStatus, timeProvider coreport.TimeProvider) error {
	if !CanTransitionStatus(t.Status, next) {
		return fmt.Errorf("%w: %s -> %s", errs.ErrInvalidStatusTransition, t.Status, next)
	}
	now := timeProvider.Now()
	t.Status = next
	t.ProcessedAt = &now
	return nil
}

// CanTransitionStatus reports whether the status change is allowed
func CanTransitionStatus(from, to TransactionStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusCompleted || to == StatusFailed
	case StatusCompleted:
		return to == StatusRefunded
	default:
		return false
	}
}

// IsCredit returns true if this entry increases the user's balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}

// IsDebit returns true if this entry decreases the user's balance
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// Magnitude returns the absolute value of the amount
func (t *Transaction) Magnitude() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// IsValidTransactionType validates if the transaction type is allowed
func IsValidTransactionType(txType string) bool {
	switch TransactionType(txType) {
	case TypeDeposit, TypeWithdrawal, TypeTransfer, TypeRefund,
		TypePlatformCredit, TypeReferral, TypeReferralEarning,
		TypeSponsorshipEarning, TypePayment, TypeFee, TypePromotion, TypeCredit:
		return true
	default:
		return false
	}
}

// IsValidTransactionStatus validates if the status is allowed
func IsValidTransactionStatus(status string) bool {
	switch TransactionStatus(status) {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	default:
		return false
	}
}

// bucketForType returns the balance bucket a type settles into
func bucketForType(txType TransactionType) BalanceBucket {
	if bucket, ok := bucketByType[txType]; ok {
		return bucket
	}
	return BucketAvailable
}

// TransactionFilter narrows ListTransactions results. All fields are
// optional; none of them changes the newest-first ordering.
type TransactionFilter struct {
	Types        []TransactionType
	Statuses     []TransactionStatus
	MinMagnitude *int64
	MaxMagnitude *int64
	From         *time.Time
	To           *time.Time
	Search       string
	Limit        int
}
