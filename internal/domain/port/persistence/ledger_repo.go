package persistence

import (
	"context"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
)

// LedgerRepository defines access to the append-only transaction ledger
type LedgerRepository interface {
	// Create appends a ledger entry
	//
	// Possible errors:
	// - ErrDuplicateTransaction: an entry with the same id or idempotency key exists
	// - ErrStorage
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByID retrieves an entry by its id
	//
	// Possible errors:
	// - ErrTransactionNotFound, ErrStorage
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)

	// GetByIdempotencyKey retrieves the entry created under a client dedupe key
	//
	// Possible errors:
	// - ErrTransactionNotFound, ErrStorage
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error)

	// UpdateStatus flips an entry's status, guarded by the allowed prior
	// status so the pending -> completed | failed and completed -> refunded
	// state machine holds under concurrency. Amounts are never updated.
	//
	// Possible errors:
	// - ErrTransactionNotFound: no entry with the id and expected status
	// - ErrStorage
	UpdateStatus(ctx context.Context, id string, from, to entity.TransactionStatus, processedAt time.Time) error

	// List returns a user's entries matching the filter, newest first
	//
	// Possible errors:
	// - ErrStorage
	List(ctx context.Context, userID string, filter entity.TransactionFilter) ([]*entity.Transaction, error)

	// SumAppliedByUser computes the signed per-bucket sums of the user's
	// applied entries: completed entries plus refunded originals. A refunded
	// original was folded into the projection when it completed, and its
	// reversing refund entry (itself completed) nets it out, so both statuses
	// must be counted. This is the ground truth the balance projection is
	// reconciled against.
	//
	// Possible errors:
	// - ErrStorage
	SumAppliedByUser(ctx context.Context, userID string) (entity.BucketTotals, error)
}
