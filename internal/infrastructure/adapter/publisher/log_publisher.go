package publisher

import (
	"context"

	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/messaging"
)

// LogPublisher implements the Publisher interface by writing events to the
// structured log. It stands in for a real broker in deployments that only
// need the durable outbox trail.
type LogPublisher struct {
	logger coreport.Logger
}

// NewLogPublisher creates a new log-backed publisher
func NewLogPublisher(logger coreport.Logger) messaging.Publisher {
	return &LogPublisher{logger: logger}
}

// Publish emits the event to the log
func (p *LogPublisher) Publish(ctx context.Context, topic string, payload []byte) error {
	p.logger.Info("Publishing event", map[string]any{
		"topic":   topic,
		"payload": string(payload),
	})
	return nil
}
