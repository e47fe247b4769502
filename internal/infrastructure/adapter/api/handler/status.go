package handler

import (
	"net/http"

	domainerr "github.com/eventpay/wallet-ledger/internal/domain/error"
)

// statusFromError maps domain errors to HTTP status codes
func statusFromError(err error) int {
	switch {
	case domainerr.IsValidationError(err):
		return http.StatusBadRequest
	case domainerr.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerr.IsInsufficientBalanceError(err):
		return http.StatusUnprocessableEntity
	case domainerr.IsDuplicateTransactionError(err), domainerr.IsConflictError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
