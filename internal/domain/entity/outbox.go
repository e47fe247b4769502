package entity

import (
	"time"

	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
)

// OutboxStatus is the delivery state of a staged event
type OutboxStatus string

// Outbox statuses. Messages move unprocessed -> processing -> published, fall
// back to unprocessed on a failed publish, and land in dead after exhausting
// their attempts.
const (
	OutboxUnprocessed OutboxStatus = "unprocessed"
	OutboxProcessing  OutboxStatus = "processing"
	OutboxPublished   OutboxStatus = "published"
	OutboxDead        OutboxStatus = "dead"
)

// Outbox topics
const (
	TopicBalanceUpdated     = "wallet.balance.updated"
	TopicTransactionCreated = "wallet.transaction.created"
)

// OutboxMessage is a durable staging row for an event awaiting asynchronous
// delivery. Rows are written in the same unit of work as the ledger mutation
// they describe, so delivery can never report an event that was rolled back.
type OutboxMessage struct {
	ID            string
	Topic         string
	Payload       []byte
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewOutboxMessage stages an event for delivery
func NewOutboxMessage(id, topic string, payload []byte, timeProvider coreport.TimeProvider) *OutboxMessage {
	now := timeProvider.Now()
	return &OutboxMessage{
		ID:            id,
		Topic:         topic,
		Payload:       payload,
		Status:        OutboxUnprocessed,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

// OutboxStats summarizes outbox health for the diagnostics endpoint
type OutboxStats struct {
	Unprocessed int64 `json:"unprocessed"`
	DLQ         int64 `json:"dlq"`
}
