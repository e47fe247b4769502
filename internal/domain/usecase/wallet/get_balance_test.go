package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/logger"
	mockcore "github.com/eventpay/wallet-ledger/mocks/port/core"
	mockpersistence "github.com/eventpay/wallet-ledger/mocks/port/persistence"
)

func TestGetBalance(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	newUseCase := func(balanceRepo *mockpersistence.MockBalanceRepository) *UseCase {
		tp := new(mockcore.MockTimeProvider)
		tp.On("Now").Return(fixedTime)
		return NewUseCase(balanceRepo, tp, logger.NewNoopLogger(), "USD")
	}

	t.Run("returns an existing balance", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		existing := &entity.WalletBalance{UserID: "user-1", Available: 500, Currency: "USD"}
		balanceRepo.On("GetByUserID", mock.Anything, "user-1").Return(existing, nil)

		uc := newUseCase(balanceRepo)
		got, err := uc.GetBalance(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, existing, got)
		balanceRepo.AssertExpectations(t)
	})

	t.Run("rejects blank user id before touching the store", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)

		uc := newUseCase(balanceRepo)
		_, err := uc.GetBalance(context.Background(), "   ")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		balanceRepo.AssertNotCalled(t, "GetByUserID", mock.Anything, mock.Anything)
	})

	t.Run("provisions a zero balance on first access", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		balanceRepo.On("GetByUserID", mock.Anything, "user-new").Return(nil, errs.ErrBalanceNotFound)
		balanceRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *entity.WalletBalance) bool {
			return b.UserID == "user-new" && b.Currency == "USD" && b.Total() == 0
		})).Return(nil)

		uc := newUseCase(balanceRepo)
		got, err := uc.GetBalance(context.Background(), "user-new")

		assert.NoError(t, err)
		assert.Equal(t, "user-new", got.UserID)
		assert.Zero(t, got.Total())
		assert.Equal(t, fixedTime, got.LastUpdated)
		balanceRepo.AssertExpectations(t)
	})

	t.Run("lost provisioning race re-reads the winner's row", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		winner := &entity.WalletBalance{UserID: "user-race", Available: 100, Currency: "USD"}
		balanceRepo.On("GetByUserID", mock.Anything, "user-race").Return(nil, errs.ErrBalanceNotFound).Once()
		balanceRepo.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDuplicateBalance)
		balanceRepo.On("GetByUserID", mock.Anything, "user-race").Return(winner, nil).Once()

		uc := newUseCase(balanceRepo)
		got, err := uc.GetBalance(context.Background(), "user-race")

		assert.NoError(t, err)
		assert.Equal(t, winner, got)
		balanceRepo.AssertExpectations(t)
	})

	t.Run("storage failures propagate", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		storageErr := errors.New("storage unavailable: connection refused")
		balanceRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, storageErr)

		uc := newUseCase(balanceRepo)
		_, err := uc.GetBalance(context.Background(), "user-1")

		assert.ErrorIs(t, err, storageErr)
		balanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("provisioning failure other than duplicate propagates", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		storageErr := errors.New("storage unavailable")
		balanceRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, errs.ErrBalanceNotFound)
		balanceRepo.On("Create", mock.Anything, mock.Anything).Return(storageErr)

		uc := newUseCase(balanceRepo)
		_, err := uc.GetBalance(context.Background(), "user-1")

		assert.ErrorIs(t, err, storageErr)
	})
}

func TestGetFormattedBalance(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := new(mockcore.MockTimeProvider)
	tp.On("Now").Return(fixedTime)

	t.Run("formats the stored balance", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		balanceRepo.On("GetByUserID", mock.Anything, "user-1").Return(&entity.WalletBalance{
			UserID:    "user-1",
			Available: 12345,
			Currency:  "USD",
		}, nil)

		uc := NewUseCase(balanceRepo, tp, logger.NewNoopLogger(), "USD")
		view, err := uc.GetFormattedBalance(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "123.45", view.Available)
		assert.Equal(t, "123.45", view.Total)
		assert.Equal(t, "USD", view.Currency)
	})

	t.Run("errors carry a zero view", func(t *testing.T) {
		balanceRepo := new(mockpersistence.MockBalanceRepository)
		balanceRepo.On("GetByUserID", mock.Anything, "user-1").Return(nil, errors.New("storage unavailable"))

		uc := NewUseCase(balanceRepo, tp, logger.NewNoopLogger(), "USD")
		view, err := uc.GetFormattedBalance(context.Background(), "user-1")

		assert.Error(t, err)
		assert.Equal(t, "0.00", view.Total)
	})
}
