package persistence

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockBalanceRepository is a mock implementation of the BalanceRepository interface
type MockBalanceRepository struct {
	mock.Mock
}

// GetByUserID mocks the GetByUserID method
func (m *MockBalanceRepository) GetByUserID(ctx context.Context, userID string) (*entity.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WalletBalance), args.Error(1)
}

// GetForUpdate mocks the GetForUpdate method
func (m *MockBalanceRepository) GetForUpdate(ctx context.Context, userID string) (*entity.WalletBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.WalletBalance), args.Error(1)
}

// Create mocks the Create method
func (m *MockBalanceRepository) Create(ctx context.Context, balance *entity.WalletBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// Update mocks the Update method
func (m *MockBalanceRepository) Update(ctx context.Context, balance *entity.WalletBalance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// ListUserIDs mocks the ListUserIDs method
func (m *MockBalanceRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
