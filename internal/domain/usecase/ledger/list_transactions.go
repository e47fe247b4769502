package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ListTransactions returns a user's ledger entries matching the filter,
// newest first. Filters narrow the result set; none of them affects ordering.
func (s *Service) ListTransactions(ctx context.Context, userID string, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.ErrInvalidUserID
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	return s.ledgerRepo.List(ctx, userID, filter)
}

func validateFilter(filter entity.TransactionFilter) error {
	for _, txType := range filter.Types {
		if !entity.IsValidTransactionType(string(txType)) {
			return fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)
		}
	}
	for _, status := range filter.Statuses {
		if !entity.IsValidTransactionStatus(string(status)) {
			return fmt.Errorf("%w: unknown status %q", errs.ErrInvalidRequest, status)
		}
	}
	if filter.MinMagnitude != nil && *filter.MinMagnitude < 0 {
		return fmt.Errorf("%w: minimum amount cannot be negative", errs.ErrInvalidAmount)
	}
	if filter.MinMagnitude != nil && filter.MaxMagnitude != nil && *filter.MinMagnitude > *filter.MaxMagnitude {
		return fmt.Errorf("%w: amount range is inverted", errs.ErrInvalidAmount)
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return fmt.Errorf("%w: date range is inverted", errs.ErrInvalidRequest)
	}
	return nil
}
