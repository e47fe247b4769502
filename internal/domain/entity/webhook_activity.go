package entity

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
)

// WebhookActivityStatus classifies the fate of an inbound provider event
type WebhookActivityStatus string

// Activity statuses
const (
	ActivityReceived  WebhookActivityStatus = "received"
	ActivityProcessed WebhookActivityStatus = "processed"
	ActivityFailed    WebhookActivityStatus = "failed"
)

// WebhookActivityRecord is one row of the append-only audit trail of inbound
// provider events. Records are never mutated and are written independently of
// whether business processing of the same event succeeds.
type WebhookActivityRecord struct {
	ID           string
	Provider     string
	EventType    string
	Payload      []byte
	Status       WebhookActivityStatus
	ErrorMessage string
	Timestamp    time.Time
}

// NewWebhookActivityRecord creates an audit record for an inbound event
func NewWebhookActivityRecord(
	id string,
	provider string,
	eventType string,
	payload []byte,
	status WebhookActivityStatus,
	errorMessage string,
	timeProvider coreport.TimeProvider,
) (*WebhookActivityRecord, error) {
	if strings.TrimSpace(provider) == "" {
		return nil, fmt.Errorf("%w: provider is required", errs.ErrInvalidRequest)
	}
	if strings.TrimSpace(eventType) == "" {
		return nil, fmt.Errorf("%w: event type is required", errs.ErrInvalidRequest)
	}
	if !isValidActivityStatus(status) {
		return nil, fmt.Errorf("%w: unknown activity status %q", errs.ErrInvalidRequest, status)
	}

	return &WebhookActivityRecord{
		ID:           id,
		Provider:     provider,
		EventType:    eventType,
		Payload:      payload,
		Status:       status,
		ErrorMessage: errorMessage,
		Timestamp:    timeProvider.Now(),
	}, nil
}

func isValidActivityStatus(status WebhookActivityStatus) bool {
	switch status {
	case ActivityReceived, ActivityProcessed, ActivityFailed:
		return true
	default:
		return false
	}
}
