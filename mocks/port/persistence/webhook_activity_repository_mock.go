package persistence

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockWebhookActivityRepository is a mock implementation of the WebhookActivityRepository interface
type MockWebhookActivityRepository struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockWebhookActivityRepository) Create(ctx context.Context, record *entity.WebhookActivityRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
