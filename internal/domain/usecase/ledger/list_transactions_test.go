package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

func TestListTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates the filter to the store", func(t *testing.T) {
		f := newServiceFixture(t)

		entries := []*entity.Transaction{
			{ID: "tx-2", UserID: "user-1"},
			{ID: "tx-1", UserID: "user-1"},
		}
		filter := entity.TransactionFilter{
			Types:    []entity.TransactionType{entity.TypeDeposit},
			Statuses: []entity.TransactionStatus{entity.StatusCompleted},
			Limit:    10,
		}
		f.ledgerRepo.On("List", mock.Anything, "user-1", filter).Return(entries, nil)

		got, err := f.service.ListTransactions(ctx, "user-1", filter)

		assert.NoError(t, err)
		assert.Equal(t, entries, got)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("missing limit defaults", func(t *testing.T) {
		f := newServiceFixture(t)

		f.ledgerRepo.On("List", mock.Anything, "user-1", mock.MatchedBy(func(filter entity.TransactionFilter) bool {
			return filter.Limit == DefaultListLimit
		})).Return([]*entity.Transaction{}, nil)

		_, err := f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{})

		assert.NoError(t, err)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("oversized limit is clamped", func(t *testing.T) {
		f := newServiceFixture(t)

		f.ledgerRepo.On("List", mock.Anything, "user-1", mock.MatchedBy(func(filter entity.TransactionFilter) bool {
			return filter.Limit == MaxListLimit
		})).Return([]*entity.Transaction{}, nil)

		_, err := f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{Limit: 10000})

		assert.NoError(t, err)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("blank user id", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ListTransactions(ctx, "  ", entity.TransactionFilter{})

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		f.ledgerRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid filters", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{
			Types: []entity.TransactionType{"jackpot"},
		})
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)

		_, err = f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{
			Statuses: []entity.TransactionStatus{"maybe"},
		})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		neg := int64(-1)
		_, err = f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{
			MinMagnitude: &neg,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		lo, hi := int64(500), int64(100)
		_, err = f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{
			MinMagnitude: &lo,
			MaxMagnitude: &hi,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		from := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		to := from.Add(-time.Hour)
		_, err = f.service.ListTransactions(ctx, "user-1", entity.TransactionFilter{
			From: &from,
			To:   &to,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)

		f.ledgerRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
