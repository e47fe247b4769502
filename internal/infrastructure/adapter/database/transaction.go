package database

import (
	"context"
	"fmt"
	"strings"

	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// Context keys
const txKey contextKey = "tx"

// UnitOfWork implements the unit of work pattern for database transactions.
// The ledger append, the balance projection update and the outbox enqueue all
// run against the same transaction and commit or roll back together.
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) persistence.UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Begin starts a new database transaction and stores it in the context
func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the current transaction
func (u *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Rollback rolls back the current transaction. Rolling back a transaction
// that already finished is not an error: deferred rollbacks after a commit
// hit this path.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if !ok || tx == nil {
		return fmt.Errorf("no transaction found in context")
	}

	if err := tx.Rollback().Error; err != nil {
		if strings.Contains(err.Error(), "already been committed or rolled back") {
			return nil
		}
		u.logger.Error("Failed to rollback transaction", map[string]any{"error": err.Error()})
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

// Balances returns a balance repository bound to the transaction in the
// context, or to the base connection when no transaction is active
func (u *UnitOfWork) Balances(ctx context.Context) persistence.BalanceRepository {
	return repository.NewBalanceRepository(u.conn(ctx), u.logger)
}

// Ledger returns a ledger repository bound to the current transaction
func (u *UnitOfWork) Ledger(ctx context.Context) persistence.LedgerRepository {
	return repository.NewLedgerRepository(u.conn(ctx), u.logger)
}

// Outbox returns an outbox repository bound to the current transaction
func (u *UnitOfWork) Outbox(ctx context.Context) persistence.OutboxRepository {
	return repository.NewOutboxRepository(u.conn(ctx), u.logger, u.timeProvider)
}

func (u *UnitOfWork) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return u.db
}
