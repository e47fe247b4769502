package webhook

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/usecase/ledger"
)

// ProviderEvent is the decoded form of an inbound payment-provider webhook
type ProviderEvent struct {
	EventType       string
	UserID          string
	TransactionType entity.TransactionType
	Amount          int64
	Currency        string
	Description     string
	Reference       string // provider-side id, or our transaction id for refunds
	Metadata        map[string]any
	IdempotencyKey  string
	RawPayload      []byte
}

// Ingestor turns provider webhooks into ledger operations. The audit log and
// the ledger are independent, eventually-consistent facts about the same
// event: audit failures never negate the acknowledgment, processing failures
// are returned so the provider redelivers.
type Ingestor struct {
	activity     *ActivityLogger
	ledger       *ledger.Service
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewIngestor creates a new ingestor instance
func NewIngestor(
	activity *ActivityLogger,
	ledgerService *ledger.Service,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Ingestor {
	return &Ingestor{
		activity:     activity,
		ledger:       ledgerService,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// IngestEvent processes one provider event end to end: audit "received",
// apply the ledger operation, audit the outcome. The returned error reflects
// business processing only.
func (i *Ingestor) IngestEvent(ctx context.Context, provider string, event ProviderEvent) error {
	i.activity.LogActivity(ctx, provider, event.EventType, event.RawPayload, entity.ActivityReceived, "")

	if err := i.process(ctx, provider, event); err != nil {
		i.activity.LogActivity(ctx, provider, event.EventType, event.RawPayload, entity.ActivityFailed, err.Error())
		i.logger.Error("Webhook processing failed", map[string]any{
			"provider":   provider,
			"event_type": event.EventType,
			"user_id":    event.UserID,
			"error":      err.Error(),
		})
		return err
	}

	i.activity.LogActivity(ctx, provider, event.EventType, event.RawPayload, entity.ActivityProcessed, "")
	return nil
}

func (i *Ingestor) process(ctx context.Context, provider string, event ProviderEvent) error {
	if event.TransactionType == entity.TypeRefund {
		if strings.TrimSpace(event.Reference) == "" {
			return fmt.Errorf("%w: refund events must reference a transaction", errs.ErrInvalidRequest)
		}
		_, err := i.ledger.RefundTransaction(ctx, event.Reference, event.Amount)
		return err
	}

	description := event.Description
	if description == "" {
		description = fmt.Sprintf("%s %s", provider, event.EventType)
	}

	metadata := event.Metadata
	if event.TransactionType == entity.TypePayment {
		built, err := i.paymentMetadata(event.Metadata)
		if err != nil {
			return err
		}
		metadata = built
	}

	_, err := i.ledger.RecordTransaction(ctx, ledger.RecordRequest{
		UserID:         event.UserID,
		Type:           event.TransactionType,
		Amount:         event.Amount,
		Currency:       event.Currency,
		Description:    description,
		Metadata:       metadata,
		IdempotencyKey: event.IdempotencyKey,
	})
	return err
}

// paymentMetadata builds processor-facing metadata for payment events that
// name the purchased event or product. Payments carrying neither pass their
// metadata through unchanged.
func (i *Ingestor) paymentMetadata(meta map[string]any) (map[string]any, error) {
	var (
		built entity.PaymentMetadata
		err   error
	)
	if id, ok := meta[entity.MetadataKeyEventID].(string); ok && id != "" {
		built, err = entity.NewEventPaymentMetadata(id, meta, i.timeProvider)
	} else if id, ok := meta[entity.MetadataKeyProductID].(string); ok && id != "" {
		built, err = entity.NewProductPaymentMetadata(id, meta, i.timeProvider)
	} else {
		return meta, nil
	}
	if err != nil {
		return nil, err
	}

	result := make(map[string]any, len(built))
	for key, value := range built {
		result[key] = value
	}
	return result, nil
}
