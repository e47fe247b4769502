package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidUserID, CodeInvalidUserID},
		{ErrInvalidAmount, CodeInvalidAmount},
		{ErrInvalidCurrency, CodeInvalidCurrency},
		{ErrRefundExceedsOriginal, CodeRefundExceedsOriginal},
		{ErrTransactionNotRefundable, CodeNotRefundable},
		{ErrInsufficientBalance, CodeInsufficientBalance},
		{ErrTransactionNotFound, CodeTransactionNotFound},
		{ErrBalanceNotFound, CodeBalanceNotFound},
		{ErrDuplicateTransaction, CodeDuplicateTransaction},
		{ErrDuplicateBalance, CodeDuplicateTransaction},
		{ErrConflict, CodeConflict},
		{ErrStorage, CodeStorage},
		{errors.New("something else"), CodeInternalServer},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorCode(tc.err), "error %v", tc.err)
	}

	t.Run("wrapped errors keep their code", func(t *testing.T) {
		wrapped := fmt.Errorf("%w: detail", ErrInvalidAmount)
		assert.Equal(t, CodeInvalidAmount, ErrorCode(wrapped))
	})
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidAmount))
	assert.True(t, IsValidationError(fmt.Errorf("%w: context", ErrRefundExceedsOriginal)))
	assert.False(t, IsValidationError(ErrStorage))

	assert.True(t, IsStorageError(ErrStorage))
	assert.True(t, IsStorageError(ErrConflict))
	assert.False(t, IsStorageError(ErrInvalidAmount))

	assert.True(t, IsNotFoundError(ErrBalanceNotFound))
	assert.True(t, IsNotFoundError(ErrTransactionNotFound))
	assert.False(t, IsNotFoundError(ErrDuplicateBalance))

	assert.True(t, IsDuplicateTransactionError(ErrDuplicateTransaction))
}

func TestLedgerError(t *testing.T) {
	cause := fmt.Errorf("%w: already refunded", ErrTransactionNotRefundable)
	err := NewLedgerError("tx-1", "user-1", "refund", 500, "refund failed", cause)

	assert.ErrorIs(t, err, ErrTransactionNotRefundable)

	var ledgerErr *LedgerError
	assert.ErrorAs(t, err, &ledgerErr)
	assert.Equal(t, "tx-1", ledgerErr.TransactionID)
	assert.Contains(t, ledgerErr.Error(), "tx-1")
	assert.Contains(t, ledgerErr.Error(), "refund failed")

	fields := ledgerErr.LogFields()
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, CodeNotRefundable, fields["error_code"])
}

func TestInsufficientBalanceError(t *testing.T) {
	err := NewInsufficientBalanceError("user-1", "available", 500, 100)

	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var insufficientErr *InsufficientBalanceError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, int64(500), insufficientErr.Requested)
	assert.Equal(t, int64(100), insufficientErr.Available)
	assert.Contains(t, err.Error(), "available 100")
}

func TestDriftError(t *testing.T) {
	err := NewDriftError("user-1", "available", 999, 500)

	assert.ErrorIs(t, err, ErrReconciliationDrift)
	assert.Contains(t, err.Error(), "projected 999")

	var driftErr *DriftError
	assert.ErrorAs(t, err, &driftErr)
	assert.Equal(t, int64(500), driftErr.LedgerSum)
}
