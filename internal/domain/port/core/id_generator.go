package core

// IDGenerator produces unique identifiers for ledger entries, webhook activity
// records and outbox messages.
type IDGenerator interface {
	NewID() string
}
