package outbox

import (
	"context"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/messaging"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// Dispatcher defaults
const (
	DefaultBatchSize       = 50
	DefaultPollInterval    = 1200 * time.Millisecond
	DefaultStaleProcessing = 2 * time.Minute
	DefaultMaxAttempts     = 8
	maxRetryDelay          = 5 * time.Minute
)

// Dispatcher drains the outbox: it claims due messages in batches, publishes
// them, and marks each published or failed. Failed messages retry with
// exponential backoff until the attempt budget is spent, then land in the
// dead-letter status.
type Dispatcher struct {
	outboxRepo   persistence.OutboxRepository
	publisher    messaging.Publisher
	logger       coreport.Logger
	batchSize    int
	pollInterval time.Duration
	staleAfter   time.Duration
	maxAttempts  int
}

// NewDispatcher creates a dispatcher with default tuning
func NewDispatcher(
	outboxRepo persistence.OutboxRepository,
	publisher messaging.Publisher,
	logger coreport.Logger,
) *Dispatcher {
	return &Dispatcher{
		outboxRepo:   outboxRepo,
		publisher:    publisher,
		logger:       logger,
		batchSize:    DefaultBatchSize,
		pollInterval: DefaultPollInterval,
		staleAfter:   DefaultStaleProcessing,
		maxAttempts:  DefaultMaxAttempts,
	}
}

// WithPollInterval overrides the poll interval
func (d *Dispatcher) WithPollInterval(interval time.Duration) *Dispatcher {
	if interval > 0 {
		d.pollInterval = interval
	}
	return d
}

// WithMaxAttempts overrides the attempt budget before dead-lettering
func (d *Dispatcher) WithMaxAttempts(attempts int) *Dispatcher {
	if attempts > 0 {
		d.maxAttempts = attempts
	}
	return d
}

// Run polls until the context is canceled. Intended to be started as a
// background goroutine from main.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	d.logger.Info("Outbox dispatcher started", map[string]any{
		"batch_size":    d.batchSize,
		"poll_interval": d.pollInterval.String(),
		"max_attempts":  d.maxAttempts,
	})

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Outbox dispatcher stopped", nil)
			return
		case <-ticker.C:
			if err := d.FlushOnce(ctx); err != nil {
				d.logger.Error("Outbox flush failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// FlushOnce claims and delivers one batch
func (d *Dispatcher) FlushOnce(ctx context.Context) error {
	messages, err := d.outboxRepo.ClaimBatch(ctx, d.batchSize, d.staleAfter)
	if err != nil {
		return err
	}

	for _, message := range messages {
		if err := d.publisher.Publish(ctx, message.Topic, message.Payload); err != nil {
			retryAfter := retryDelay(message.Attempts)
			if markErr := d.outboxRepo.MarkFailed(ctx, message.ID, retryAfter, err.Error(), d.maxAttempts); markErr != nil {
				d.logger.Error("Failed to mark outbox message failed", map[string]any{
					"message_id": message.ID,
					"error":      markErr.Error(),
				})
			}
			continue
		}
		if err := d.outboxRepo.MarkPublished(ctx, message.ID); err != nil {
			d.logger.Error("Failed to mark outbox message published", map[string]any{
				"message_id": message.ID,
				"error":      err.Error(),
			})
		}
	}
	return nil
}

// Stats reports outbox health for the diagnostics endpoint
func (d *Dispatcher) Stats(ctx context.Context) (entity.OutboxStats, error) {
	return d.outboxRepo.Stats(ctx)
}

// retryDelay doubles per attempt, capped at maxRetryDelay
func retryDelay(attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	if attempts > 8 {
		attempts = 8
	}
	delay := time.Second << uint(attempts)
	if delay > maxRetryDelay {
		return maxRetryDelay
	}
	return delay
}
