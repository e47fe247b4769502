package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

func TestNewZeroBalance(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := fixedTimeProvider(fixedTime)

	t.Run("starts every bucket at zero", func(t *testing.T) {
		balance, err := NewZeroBalance("user-1", "USD", tp)
		assert.NoError(t, err)
		assert.Equal(t, "user-1", balance.UserID)
		assert.Equal(t, "USD", balance.Currency)
		assert.Zero(t, balance.Available)
		assert.Zero(t, balance.Pending)
		assert.Zero(t, balance.PlatformCredit)
		assert.Zero(t, balance.ReferralEarnings)
		assert.Equal(t, fixedTime, balance.LastUpdated)
	})

	t.Run("blank currency falls back to the default", func(t *testing.T) {
		balance, err := NewZeroBalance("user-1", "", tp)
		assert.NoError(t, err)
		assert.Equal(t, DefaultCurrency, balance.Currency)
	})

	t.Run("uppercases the currency", func(t *testing.T) {
		balance, err := NewZeroBalance("user-1", "jpy", tp)
		assert.NoError(t, err)
		assert.Equal(t, "JPY", balance.Currency)
	})

	t.Run("rejects blank user id", func(t *testing.T) {
		_, err := NewZeroBalance("   ", "USD", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("rejects invalid currency", func(t *testing.T) {
		_, err := NewZeroBalance("user-1", "DOLLARS", tp)
		assert.ErrorIs(t, err, errs.ErrInvalidCurrency)
	})
}

func TestApplyEntry(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := fixedTimeProvider(fixedTime)

	completedEntry := func(txType TransactionType, magnitude int64) *Transaction {
		txn, err := NewTransaction("tx-1", "user-1", txType, magnitude, "USD", "", tp)
		assert.NoError(t, err)
		assert.NoError(t, txn.MarkCompleted(tp))
		return txn
	}

	t.Run("credits add to the entry's bucket", func(t *testing.T) {
		balance, _ := NewZeroBalance("user-1", "USD", tp)

		assert.NoError(t, balance.ApplyEntry(completedEntry(TypeDeposit, 1000), tp))
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypePlatformCredit, 250), tp))
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypeReferral, 75), tp))

		assert.Equal(t, int64(1000), balance.Available)
		assert.Equal(t, int64(250), balance.PlatformCredit)
		assert.Equal(t, int64(75), balance.ReferralEarnings)
		assert.Equal(t, int64(1325), balance.Total())
	})

	t.Run("debits subtract from the entry's bucket", func(t *testing.T) {
		balance, _ := NewZeroBalance("user-1", "USD", tp)
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypeDeposit, 1000), tp))
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypeWithdrawal, 400), tp))
		assert.Equal(t, int64(600), balance.Available)
	})

	t.Run("a debit past zero is rejected", func(t *testing.T) {
		balance, _ := NewZeroBalance("user-1", "USD", tp)
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypeDeposit, 100), tp))

		err := balance.ApplyEntry(completedEntry(TypePayment, 101), tp)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)

		var insufficientErr *errs.InsufficientBalanceError
		assert.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, "user-1", insufficientErr.UserID)
		assert.Equal(t, int64(101), insufficientErr.Requested)
		assert.Equal(t, int64(100), insufficientErr.Available)

		// the failed debit must not touch the projection
		assert.Equal(t, int64(100), balance.Available)
	})

	t.Run("buckets do not cover for each other", func(t *testing.T) {
		balance, _ := NewZeroBalance("user-1", "USD", tp)
		assert.NoError(t, balance.ApplyEntry(completedEntry(TypePlatformCredit, 5000), tp))

		err := balance.ApplyEntry(completedEntry(TypeWithdrawal, 1), tp)
		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	})

	t.Run("only completed entries fold in", func(t *testing.T) {
		balance, _ := NewZeroBalance("user-1", "USD", tp)
		pending, err := NewTransaction("tx-2", "user-1", TypeDeposit, 100, "USD", "", tp)
		assert.NoError(t, err)

		assert.ErrorIs(t, balance.ApplyEntry(pending, tp), errs.ErrInvalidStatusTransition)
		assert.Zero(t, balance.Available)
	})
}

func TestMatchesAndResetTo(t *testing.T) {
	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := fixedTimeProvider(fixedTime)

	balance, _ := NewZeroBalance("user-1", "USD", tp)
	balance.Available = 500
	balance.PlatformCredit = 200

	matching := BucketTotals{Available: 500, PlatformCredit: 200}
	assert.True(t, balance.Matches(matching))
	assert.Equal(t, int64(700), matching.Total())

	drifted := BucketTotals{Available: 450, PlatformCredit: 200, ReferralEarnings: 30}
	assert.False(t, balance.Matches(drifted))

	balance.ResetTo(drifted, tp)
	assert.Equal(t, int64(450), balance.Available)
	assert.Equal(t, int64(30), balance.ReferralEarnings)
	assert.True(t, balance.Matches(drifted))
	assert.Equal(t, fixedTime, balance.LastUpdated)
}
