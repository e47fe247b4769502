package persistence

import (
	"context"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockOutboxRepository is a mock implementation of the OutboxRepository interface
type MockOutboxRepository struct {
	mock.Mock
}

// Enqueue mocks the Enqueue method
func (m *MockOutboxRepository) Enqueue(ctx context.Context, message *entity.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// ClaimBatch mocks the ClaimBatch method
func (m *MockOutboxRepository) ClaimBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*entity.OutboxMessage, error) {
	args := m.Called(ctx, limit, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.OutboxMessage), args.Error(1)
}

// MarkPublished mocks the MarkPublished method
func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkFailed mocks the MarkFailed method
func (m *MockOutboxRepository) MarkFailed(ctx context.Context, id string, retryAfter time.Duration, reason string, maxAttempts int) error {
	args := m.Called(ctx, id, retryAfter, reason, maxAttempts)
	return args.Error(0)
}

// Stats mocks the Stats method
func (m *MockOutboxRepository) Stats(ctx context.Context) (entity.OutboxStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(entity.OutboxStats), args.Error(1)
}
