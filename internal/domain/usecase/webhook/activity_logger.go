package webhook

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// ActivityLogger writes the append-only audit trail of inbound provider
// events. Writes are best-effort: a storage failure is logged and swallowed
// so the audit never blocks webhook acknowledgment or rolls back ledger work.
type ActivityLogger struct {
	activityRepo persistence.WebhookActivityRepository
	idGenerator  coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewActivityLogger creates a new activity logger instance
func NewActivityLogger(
	activityRepo persistence.WebhookActivityRepository,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *ActivityLogger {
	return &ActivityLogger{
		activityRepo: activityRepo,
		idGenerator:  idGenerator,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// LogActivity appends one audit record and returns its id. On any failure it
// returns the empty string — never an error — and reports the failure through
// the structured log only.
func (l *ActivityLogger) LogActivity(
	ctx context.Context,
	provider string,
	eventType string,
	payload []byte,
	status entity.WebhookActivityStatus,
	errorMessage string,
) string {
	record, err := entity.NewWebhookActivityRecord(
		l.idGenerator.NewID(),
		provider,
		eventType,
		payload,
		status,
		errorMessage,
		l.timeProvider,
	)
	if err != nil {
		l.logger.Warn("Dropping malformed webhook activity record", map[string]any{
			"provider":   provider,
			"event_type": eventType,
			"error":      err.Error(),
		})
		return ""
	}

	if err := l.activityRepo.Create(ctx, record); err != nil {
		l.logger.Warn("Webhook activity write failed", map[string]any{
			"provider":   provider,
			"event_type": eventType,
			"status":     string(status),
			"error":      err.Error(),
		})
		return ""
	}

	return record.ID
}
