package persistence

import (
	"context"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
)

// OutboxRepository defines access to the durable event staging table
type OutboxRepository interface {
	// Enqueue stages a message. Called inside the unit of work of the ledger
	// mutation the message describes.
	//
	// Possible errors:
	// - ErrStorage
	Enqueue(ctx context.Context, message *entity.OutboxMessage) error

	// ClaimBatch atomically claims up to limit deliverable messages:
	// unprocessed rows whose next attempt is due, plus processing rows whose
	// claim went stale (a dispatcher died mid-flight).
	//
	// Possible errors:
	// - ErrStorage
	ClaimBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*entity.OutboxMessage, error)

	// MarkPublished finalizes a delivered message
	//
	// Possible errors:
	// - ErrStorage
	MarkPublished(ctx context.Context, id string) error

	// MarkFailed records a failed publish. The message returns to
	// unprocessed with the given retry delay, or moves to dead once its
	// attempt count reaches maxAttempts.
	//
	// Possible errors:
	// - ErrStorage
	MarkFailed(ctx context.Context, id string, retryAfter time.Duration, reason string, maxAttempts int) error

	// Stats reports unprocessed and dead-letter counts
	//
	// Possible errors:
	// - ErrStorage
	Stats(ctx context.Context) (entity.OutboxStats, error)
}
