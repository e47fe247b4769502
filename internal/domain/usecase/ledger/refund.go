package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
)

// RefundTransaction reverses a completed ledger entry: it appends a refund
// entry signed opposite to the original, linked via relatedTransactionId, and
// flips the original's status to refunded. The original's amount is never
// mutated. A zero magnitude means a full refund.
func (s *Service) RefundTransaction(ctx context.Context, transactionID string, magnitude int64) (*entity.Transaction, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction id is required", errs.ErrInvalidRequest)
	}

	original, err := s.ledgerRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if magnitude == 0 {
		magnitude = original.Magnitude()
	}

	refund, err := entity.NewRefundTransaction(s.idGenerator.NewID(), original, magnitude, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := refund.MarkCompleted(s.timeProvider); err != nil {
		return nil, err
	}

	recorded, err := s.applyInUnitOfWork(ctx, refund, original)
	if err != nil {
		return nil, errs.NewLedgerError(transactionID, original.UserID, string(entity.TypeRefund), magnitude, "refund failed", err)
	}

	s.logger.Info("Transaction refunded", map[string]any{
		"transaction_id": original.ID,
		"refund_id":      recorded.ID,
		"user_id":        original.UserID,
		"amount":         recorded.Amount,
	})
	return recorded, nil
}
