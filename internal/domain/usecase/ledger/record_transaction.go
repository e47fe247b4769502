package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// RecordRequest describes a balance-affecting operation to append to the
// ledger. Amount is a positive magnitude in minor units; the type determines
// the sign of the stored entry.
type RecordRequest struct {
	UserID          string
	Type            entity.TransactionType
	Amount          int64
	Currency        string
	Description     string
	Metadata        map[string]any
	PaymentMethodID string
	IdempotencyKey  string
}

// balanceEvent is the outbox payload emitted after a successful write
type balanceEvent struct {
	TransactionID string `json:"transactionId"`
	UserID        string `json:"userId"`
	Type          string `json:"type"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Total         int64  `json:"total"`
}

// RecordTransaction appends a completed ledger entry and applies its balance
// delta atomically. When the request carries an idempotency key, a repeated
// call returns the entry created by the first one instead of an error.
func (s *Service) RecordTransaction(ctx context.Context, req RecordRequest) (*entity.Transaction, error) {
	if req.Currency == "" {
		req.Currency = s.defaultCurrency
	}

	txn, err := entity.NewTransaction(
		s.idGenerator.NewID(),
		req.UserID,
		req.Type,
		req.Amount,
		req.Currency,
		req.Description,
		s.timeProvider,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}
	txn.Metadata = entity.NormalizePaymentMetadata(req.Metadata)
	txn.PaymentMethodID = req.PaymentMethodID
	txn.IdempotencyKey = req.IdempotencyKey

	// Fast idempotency path: skip the unit of work for repeated requests
	if req.IdempotencyKey != "" {
		existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			s.logger.Info("Idempotent replay, returning existing entry", map[string]any{
				"idempotency_key": req.IdempotencyKey,
				"transaction_id":  existing.ID,
			})
			return existing, nil
		}
		if !errors.Is(err, errs.ErrTransactionNotFound) {
			return nil, err
		}
	}

	if err := txn.MarkCompleted(s.timeProvider); err != nil {
		return nil, err
	}

	recorded, err := s.applyInUnitOfWork(ctx, txn, nil)
	if err != nil {
		// Two concurrent requests with the same key can both miss the fast
		// path; the unique constraint decides the winner and the loser
		// returns the winner's entry.
		if req.IdempotencyKey != "" && errs.IsDuplicateTransactionError(err) {
			return s.ledgerRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return nil, err
	}

	s.logger.Info("Transaction recorded", map[string]any{
		"transaction_id": recorded.ID,
		"user_id":        recorded.UserID,
		"tx_type":        string(recorded.Type),
		"amount":         recorded.Amount,
		"currency":       recorded.Currency,
	})
	return recorded, nil
}

// applyInUnitOfWork appends the entry, folds it into the balance projection,
// optionally flips a related entry's status, and stages the outbox event.
// markRefunded, when set, names the completed entry to flip to refunded.
func (s *Service) applyInUnitOfWork(ctx context.Context, txn *entity.Transaction, markRefunded *entity.Transaction) (*entity.Transaction, error) {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
				s.logger.Error("Rollback failed", map[string]any{"error": rbErr.Error()})
			}
		}
	}()

	ledgerRepo := s.uow.Ledger(txCtx)
	balanceRepo := s.uow.Balances(txCtx)
	outboxRepo := s.uow.Outbox(txCtx)

	if err := ledgerRepo.Create(txCtx, txn); err != nil {
		return nil, err
	}

	balance, err := s.lockBalance(txCtx, balanceRepo, txn.UserID, txn.Currency)
	if err != nil {
		return nil, err
	}

	if err := balance.ApplyEntry(txn, s.timeProvider); err != nil {
		var insufficient *errs.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			s.logger.Warn("Debit rejected", insufficient.LogFields())
		}
		return nil, err
	}

	if err := balanceRepo.Update(txCtx, balance); err != nil {
		return nil, err
	}

	if markRefunded != nil {
		err := ledgerRepo.UpdateStatus(txCtx, markRefunded.ID, entity.StatusCompleted, entity.StatusRefunded, s.timeProvider.Now())
		if err != nil {
			if errors.Is(err, errs.ErrTransactionNotFound) {
				// The guard found no completed row: someone refunded it first
				return nil, fmt.Errorf("%w: already refunded", errs.ErrTransactionNotRefundable)
			}
			return nil, err
		}
	}

	payload, err := json.Marshal(balanceEvent{
		TransactionID: txn.ID,
		UserID:        txn.UserID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		Currency:      txn.Currency,
		Total:         balance.Total(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding outbox payload: %s", errs.ErrInternalServer, err.Error())
	}
	message := entity.NewOutboxMessage(s.idGenerator.NewID(), entity.TopicTransactionCreated, payload, s.timeProvider)
	if err := outboxRepo.Enqueue(txCtx, message); err != nil {
		return nil, err
	}

	if err := s.uow.Commit(txCtx); err != nil {
		return nil, err
	}
	committed = true
	return txn, nil
}

// lockBalance fetches the row under a write lock, provisioning it first when
// the user has never been seen.
func (s *Service) lockBalance(ctx context.Context, repo persistence.BalanceRepository, userID, currency string) (*entity.WalletBalance, error) {
	balance, err := repo.GetForUpdate(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, errs.ErrBalanceNotFound) {
		return nil, err
	}

	fresh, err := entity.NewZeroBalance(userID, currency, s.timeProvider)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, fresh); err != nil {
		if errors.Is(err, errs.ErrDuplicateBalance) {
			return repo.GetForUpdate(ctx, userID)
		}
		return nil, err
	}
	return repo.GetForUpdate(ctx, userID)
}
