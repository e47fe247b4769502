package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidUserID          = 4001
	CodeInvalidAmount          = 4002
	CodeInvalidTransactionType = 4003
	CodeInvalidCurrency        = 4004
	CodeMissingEventID         = 4005
	CodeMissingProductID       = 4006
	CodeInvalidStatusChange    = 4007
	CodeRefundExceedsOriginal  = 4008
	CodeNotRefundable          = 4009
	CodeInsufficientBalance    = 4010
	CodeInvalidRequest         = 4011
	CodeTransactionNotFound    = 4040
	CodeBalanceNotFound        = 4041
	CodeDuplicateTransaction   = 4090
	CodeConflict               = 4091

	// 5xxx - Server errors
	CodeStorage              = 5001
	CodeReconciliationDrift  = 5002
	CodeInternalServer       = 5000
)

// Validation errors. These are surfaced to the caller synchronously and are
// never retried automatically.
var (
	// ErrInvalidUserID is returned when the user identifier is empty
	ErrInvalidUserID = errors.New("user ID cannot be empty")

	// ErrInvalidAmount is returned when the amount is not a positive integer in minor units
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTransactionType is returned when the transaction type is not recognized
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidCurrency is returned when the currency is not a known ISO code
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMissingEventID is returned when event payment metadata lacks an event ID
	ErrMissingEventID = errors.New("eventId is required for event payments")

	// ErrMissingProductID is returned when product payment metadata lacks a product ID
	ErrMissingProductID = errors.New("productId is required for product payments")

	// ErrInvalidStatusTransition is returned on a disallowed transaction status change
	ErrInvalidStatusTransition = errors.New("invalid transaction status transition")

	// ErrRefundExceedsOriginal is returned when a refund amount exceeds the original transaction
	ErrRefundExceedsOriginal = errors.New("refund amount exceeds original transaction")

	// ErrTransactionNotRefundable is returned when refunding a non-completed transaction
	ErrTransactionNotRefundable = errors.New("only completed transactions can be refunded")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")
)

// Storage errors. Reads may be retried with backoff; writes only when they
// carry an idempotency key.
var (
	// ErrStorage is returned when the backing store is unavailable
	ErrStorage = errors.New("storage unavailable")

	// ErrConflict is returned when concurrent mutations collide and the caller should retry
	ErrConflict = errors.New("conflicting concurrent operation")

	// ErrDuplicateTransaction is returned when a transaction with the same key already exists
	ErrDuplicateTransaction = errors.New("transaction with this key already exists")

	// ErrDuplicateBalance is returned when a balance row for the user already exists
	ErrDuplicateBalance = errors.New("balance row already exists")

	// ErrBalanceNotFound is returned when no balance row exists for the user
	ErrBalanceNotFound = errors.New("balance not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInsufficientBalance is returned when a debit would drive a balance bucket negative
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

var (
	// ErrReconciliationDrift is reported when the balance projection diverges from
	// the ledger sum. Not fatal: the balance is recomputed from the ledger.
	ErrReconciliationDrift = errors.New("balance diverges from ledger sum")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidTransactionType):
		return CodeInvalidTransactionType
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrMissingEventID):
		return CodeMissingEventID
	case errors.Is(err, ErrMissingProductID):
		return CodeMissingProductID
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusChange
	case errors.Is(err, ErrRefundExceedsOriginal):
		return CodeRefundExceedsOriginal
	case errors.Is(err, ErrTransactionNotRefundable):
		return CodeNotRefundable
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrBalanceNotFound):
		return CodeBalanceNotFound
	case errors.Is(err, ErrDuplicateTransaction), errors.Is(err, ErrDuplicateBalance):
		return CodeDuplicateTransaction
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrStorage):
		return CodeStorage
	case errors.Is(err, ErrReconciliationDrift):
		return CodeReconciliationDrift
	default:
		return CodeInternalServer
	}
}

// IsValidationError reports whether the error belongs to the validation class.
// Validation errors must not be retried.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidUserID, ErrInvalidAmount, ErrInvalidTransactionType,
		ErrInvalidCurrency, ErrMissingEventID, ErrMissingProductID,
		ErrInvalidStatusTransition, ErrRefundExceedsOriginal,
		ErrTransactionNotRefundable, ErrInvalidRequest,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsStorageError reports whether the error originated in the backing store
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrConflict)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrBalanceNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}

// IsConflictError reports whether the caller may retry the whole operation
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsDuplicateTransactionError checks if the error is a duplicate transaction error
func IsDuplicateTransactionError(err error) bool {
	return errors.Is(err, ErrDuplicateTransaction)
}

// LedgerError represents an error raised while recording a ledger entry
type LedgerError struct {
	TransactionID string
	UserID        string
	Type          string
	Amount        int64
	Reason        string
	Err           error
}

// Error implements the error interface for LedgerError
func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger error for transaction %s (user: %s, type: %s, amount: %d): %s - %v",
		e.TransactionID, e.UserID, e.Type, e.Amount, e.Reason, e.Err)
}

// Unwrap returns the underlying error
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *LedgerError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "ledger_error",
		"transaction_id": e.TransactionID,
		"user_id":        e.UserID,
		"tx_type":        e.Type,
		"amount":         e.Amount,
		"reason":         e.Reason,
		"error":          e.Err.Error(),
		"error_code":     ErrorCode(e.Err),
	}
}

// NewLedgerError creates a detailed ledger error
func NewLedgerError(transactionID, userID, txType string, amount int64, reason string, err error) error {
	return &LedgerError{
		TransactionID: transactionID,
		UserID:        userID,
		Type:          txType,
		Amount:        amount,
		Reason:        reason,
		Err:           err,
	}
}

// InsufficientBalanceError provides detailed error information for insufficient balance
type InsufficientBalanceError struct {
	UserID    string
	Bucket    string
	Requested int64
	Available int64
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %s in bucket %s: required %d, available %d",
		e.UserID, e.Bucket, e.Requested, e.Available)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_balance",
		"user_id":    e.UserID,
		"bucket":     e.Bucket,
		"requested":  e.Requested,
		"available":  e.Available,
		"error_code": CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID, bucket string, requested, available int64) error {
	return &InsufficientBalanceError{
		UserID:    userID,
		Bucket:    bucket,
		Requested: requested,
		Available: available,
	}
}

// DriftError reports a divergence between the balance projection and the
// ledger sum for a single user.
type DriftError struct {
	UserID    string
	Bucket    string
	Projected int64
	LedgerSum int64
}

// Error implements the error interface
func (e *DriftError) Error() string {
	return fmt.Sprintf("reconciliation drift for user %s bucket %s: projected %d, ledger sum %d",
		e.UserID, e.Bucket, e.Projected, e.LedgerSum)
}

// Is checks if the target error is an ErrReconciliationDrift
func (e *DriftError) Is(target error) bool {
	return target == ErrReconciliationDrift
}

// LogFields returns a map of fields for structured logging
func (e *DriftError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "reconciliation_drift",
		"user_id":    e.UserID,
		"bucket":     e.Bucket,
		"projected":  e.Projected,
		"ledger_sum": e.LedgerSum,
		"error_code": CodeReconciliationDrift,
	}
}

// NewDriftError creates a new reconciliation drift error
func NewDriftError(userID, bucket string, projected, ledgerSum int64) error {
	return &DriftError{
		UserID:    userID,
		Bucket:    bucket,
		Projected: projected,
		LedgerSum: ledgerSum,
	}
}
