package messaging

import "context"

// Publisher delivers outbox messages to downstream consumers. Delivery is
// best-effort from the dispatcher's point of view: a failed publish is retried
// by the outbox, never by the caller that enqueued the message.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}
