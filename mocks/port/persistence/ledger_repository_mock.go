package persistence

import (
	"context"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock implementation of the LedgerRepository interface
type MockLedgerRepository struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockLedgerRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

// GetByID mocks the GetByID method
func (m *MockLedgerRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// GetByIdempotencyKey mocks the GetByIdempotencyKey method
func (m *MockLedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

// UpdateStatus mocks the UpdateStatus method
func (m *MockLedgerRepository) UpdateStatus(ctx context.Context, id string, from, to entity.TransactionStatus, processedAt time.Time) error {
	args := m.Called(ctx, id, from, to, processedAt)
	return args.Error(0)
}

// List mocks the List method
func (m *MockLedgerRepository) List(ctx context.Context, userID string, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

// SumAppliedByUser mocks the SumAppliedByUser method
func (m *MockLedgerRepository) SumAppliedByUser(ctx context.Context, userID string) (entity.BucketTotals, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.BucketTotals), args.Error(1)
}
