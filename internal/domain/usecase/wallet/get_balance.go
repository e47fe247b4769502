package wallet

import (
	"context"
	"errors"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// UseCase implements wallet balance reads with lazy provisioning
type UseCase struct {
	balanceRepo     persistence.BalanceRepository
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	defaultCurrency string
}

// NewUseCase creates a new wallet use case instance
func NewUseCase(
	balanceRepo persistence.BalanceRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	defaultCurrency string,
) *UseCase {
	if defaultCurrency == "" {
		defaultCurrency = entity.DefaultCurrency
	}
	return &UseCase{
		balanceRepo:     balanceRepo,
		timeProvider:    timeProvider,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// GetBalance returns the user's balance, provisioning an all-zero row on
// first access. Concurrent first access is resolved by the unique constraint
// on user_id: "row already exists" is treated as success and re-read.
func (u *UseCase) GetBalance(ctx context.Context, userID string) (*entity.WalletBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errs.ErrInvalidUserID
	}

	balance, err := u.balanceRepo.GetByUserID(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, errs.ErrBalanceNotFound) {
		u.logger.Error("Failed to get balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	fresh, err := entity.NewZeroBalance(userID, u.defaultCurrency, u.timeProvider)
	if err != nil {
		return nil, err
	}

	if err := u.balanceRepo.Create(ctx, fresh); err != nil {
		if errors.Is(err, errs.ErrDuplicateBalance) {
			// Another request provisioned the row between our read and write
			return u.balanceRepo.GetByUserID(ctx, userID)
		}
		u.logger.Error("Failed to provision balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	u.logger.Info("Balance provisioned", map[string]any{
		"user_id":  userID,
		"currency": fresh.Currency,
	})
	return fresh, nil
}

// GetFormattedBalance returns the display view of the user's balance
func (u *UseCase) GetFormattedBalance(ctx context.Context, userID string) (entity.BalanceView, error) {
	balance, err := u.GetBalance(ctx, userID)
	if err != nil {
		return entity.FormatBalance(nil), err
	}
	return entity.FormatBalance(balance), nil
}
