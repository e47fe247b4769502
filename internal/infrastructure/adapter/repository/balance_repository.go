package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRepository implements BalanceRepository interface using GORM
type BalanceRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceRepository creates a new BalanceRepository instance
func NewBalanceRepository(db *gorm.DB, logger coreport.Logger) *BalanceRepository {
	return &BalanceRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a balance entity to a database model
func (r *BalanceRepository) entityToModel(balance *entity.WalletBalance) model.WalletBalance {
	return model.WalletBalance{
		UserID:           balance.UserID,
		Available:        balance.Available,
		Pending:          balance.Pending,
		PlatformCredit:   balance.PlatformCredit,
		ReferralEarnings: balance.ReferralEarnings,
		Currency:         balance.Currency,
		LastUpdated:      balance.LastUpdated,
	}
}

// modelToEntity converts a balance model to an entity
func (r *BalanceRepository) modelToEntity(balanceModel *model.WalletBalance) *entity.WalletBalance {
	return &entity.WalletBalance{
		UserID:           balanceModel.UserID,
		Available:        balanceModel.Available,
		Pending:          balanceModel.Pending,
		PlatformCredit:   balanceModel.PlatformCredit,
		ReferralEarnings: balanceModel.ReferralEarnings,
		Currency:         balanceModel.Currency,
		LastUpdated:      balanceModel.LastUpdated,
	}
}

// GetByUserID retrieves the balance projection for a user
func (r *BalanceRepository) GetByUserID(ctx context.Context, userID string) (*entity.WalletBalance, error) {
	var balanceModel model.WalletBalance
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&balanceModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBalanceNotFound
		}
		r.logger.Error("Failed to get balance", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&balanceModel), nil
}

// GetForUpdate retrieves the balance row under a row lock. Concurrent
// balance-affecting operations for the same user serialize here.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, userID string) (*entity.WalletBalance, error) {
	var balanceModel model.WalletBalance
	result := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&balanceModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrBalanceNotFound
		}
		if r.errorClassifier.IsLockError(result.Error) {
			r.logger.Warn("Lock contention on balance row", map[string]any{
				"user_id": userID,
				"error":   result.Error.Error(),
			})
			return nil, fmt.Errorf("%w: %s", errs.ErrConflict, result.Error.Error())
		}
		r.logger.Error("Failed to lock balance", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&balanceModel), nil
}

// Create inserts the initial zero balance row for a user. The insert runs
// with ON CONFLICT DO NOTHING: provisioning happens inside the caller's open
// transaction, and a raised unique violation would abort the whole
// transaction on Postgres, making the caller's recovery re-read impossible.
func (r *BalanceRepository) Create(ctx context.Context, balance *entity.WalletBalance) error {
	r.logger.Debug("Provisioning balance", map[string]any{
		"user_id":  balance.UserID,
		"currency": balance.Currency,
	})

	balanceModel := r.entityToModel(balance)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&balanceModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			// A concurrent request provisioned the row first. Callers treat
			// this as success and re-read.
			return errs.ErrDuplicateBalance
		}
		r.logger.Error("Failed to provision balance", map[string]any{
			"user_id": balance.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		// The conflict clause swallowed a duplicate insert.
		return errs.ErrDuplicateBalance
	}

	r.logger.Info("Balance provisioned", map[string]any{
		"user_id":  balance.UserID,
		"currency": balance.Currency,
	})
	return nil
}

// Update persists the projection after ledger entries were applied
func (r *BalanceRepository) Update(ctx context.Context, balance *entity.WalletBalance) error {
	balanceModel := r.entityToModel(balance)

	result := r.db.WithContext(ctx).Model(&model.WalletBalance{}).
		Where("user_id = ?", balance.UserID).
		Updates(map[string]interface{}{
			"available":         balanceModel.Available,
			"pending":           balanceModel.Pending,
			"platform_credit":   balanceModel.PlatformCredit,
			"referral_earnings": balanceModel.ReferralEarnings,
			"last_updated":      balanceModel.LastUpdated,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update balance", map[string]any{
			"user_id": balance.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Balance not found during update", map[string]any{
			"user_id": balance.UserID,
		})
		return errs.ErrBalanceNotFound
	}

	return nil
}

// ListUserIDs returns the user ids of all provisioned balances
func (r *BalanceRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string
	result := r.db.WithContext(ctx).Model(&model.WalletBalance{}).
		Order("user_id").
		Pluck("user_id", &userIDs)

	if result.Error != nil {
		r.logger.Error("Failed to list balance user ids", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return userIDs, nil
}
