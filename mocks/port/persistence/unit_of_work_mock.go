package persistence

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of the UnitOfWork interface
type MockUnitOfWork struct {
	mock.Mock
}

// Begin mocks the Begin method
func (m *MockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return ctx, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

// Commit mocks the Commit method
func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Rollback mocks the Rollback method
func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Balances mocks the Balances method
func (m *MockUnitOfWork) Balances(ctx context.Context) persistence.BalanceRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.BalanceRepository)
}

// Ledger mocks the Ledger method
func (m *MockUnitOfWork) Ledger(ctx context.Context) persistence.LedgerRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.LedgerRepository)
}

// Outbox mocks the Outbox method
func (m *MockUnitOfWork) Outbox(ctx context.Context) persistence.OutboxRepository {
	args := m.Called(ctx)
	return args.Get(0).(persistence.OutboxRepository)
}
