package persistence

import (
	"context"
)

// UnitOfWork coordinates the ledger append, the balance projection update and
// the outbox enqueue so they commit or roll back together. The ledger write
// must be durably visible before the balance is considered authoritative;
// committing them in one transaction satisfies that ordering.
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// Balances returns a balance repository bound to the current transaction
	Balances(ctx context.Context) BalanceRepository

	// Ledger returns a ledger repository bound to the current transaction
	Ledger(ctx context.Context) LedgerRepository

	// Outbox returns an outbox repository bound to the current transaction
	Outbox(ctx context.Context) OutboxRepository
}
