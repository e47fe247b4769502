package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LedgerRepository implements LedgerRepository interface using GORM
type LedgerRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLedgerRepository creates a new LedgerRepository instance
func NewLedgerRepository(db *gorm.DB, logger coreport.Logger) *LedgerRepository {
	return &LedgerRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a ledger entry entity to a database model
func (r *LedgerRepository) entityToModel(transaction *entity.Transaction) (model.Transaction, error) {
	var metadata string
	if len(transaction.Metadata) > 0 {
		encoded, err := json.Marshal(transaction.Metadata)
		if err != nil {
			return model.Transaction{}, fmt.Errorf("%w: encode metadata: %s", errs.ErrStorage, err.Error())
		}
		metadata = string(encoded)
	}

	var idempotencyKey *string
	if transaction.IdempotencyKey != "" {
		key := transaction.IdempotencyKey
		idempotencyKey = &key
	}

	return model.Transaction{
		ID:                   transaction.ID,
		UserID:               transaction.UserID,
		Type:                 string(transaction.Type),
		Amount:               transaction.Amount,
		Currency:             transaction.Currency,
		Description:          transaction.Description,
		Status:               string(transaction.Status),
		Bucket:               string(transaction.Bucket),
		CreatedAt:            transaction.CreatedAt,
		ProcessedAt:          transaction.ProcessedAt,
		Metadata:             metadata,
		PaymentMethodID:      transaction.PaymentMethodID,
		RelatedTransactionID: transaction.RelatedTransactionID,
		IdempotencyKey:       idempotencyKey,
	}, nil
}

// modelToEntity converts a ledger entry model to an entity
func (r *LedgerRepository) modelToEntity(transactionModel *model.Transaction) (*entity.Transaction, error) {
	var metadata map[string]string
	if transactionModel.Metadata != "" {
		if err := json.Unmarshal([]byte(transactionModel.Metadata), &metadata); err != nil {
			return nil, fmt.Errorf("%w: decode metadata: %s", errs.ErrStorage, err.Error())
		}
	}

	var idempotencyKey string
	if transactionModel.IdempotencyKey != nil {
		idempotencyKey = *transactionModel.IdempotencyKey
	}

	return &entity.Transaction{
		ID:                   transactionModel.ID,
		UserID:               transactionModel.UserID,
		Type:                 entity.TransactionType(transactionModel.Type),
		Amount:               transactionModel.Amount,
		Currency:             transactionModel.Currency,
		Description:          transactionModel.Description,
		Status:               entity.TransactionStatus(transactionModel.Status),
		Bucket:               entity.BalanceBucket(transactionModel.Bucket),
		CreatedAt:            transactionModel.CreatedAt,
		ProcessedAt:          transactionModel.ProcessedAt,
		Metadata:             metadata,
		PaymentMethodID:      transactionModel.PaymentMethodID,
		RelatedTransactionID: transactionModel.RelatedTransactionID,
		IdempotencyKey:       idempotencyKey,
	}, nil
}

// Create appends a ledger entry
func (r *LedgerRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Appending ledger entry", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           transaction.Type,
	})

	transactionModel, err := r.entityToModel(transaction)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(&transactionModel)

	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate ledger entry detected", map[string]any{
				"transaction_id":  transaction.ID,
				"user_id":         transaction.UserID,
				"idempotency_key": transaction.IdempotencyKey,
			})
			return errs.ErrDuplicateTransaction
		}
		r.logger.Error("Failed to append ledger entry", map[string]any{
			"transaction_id": transaction.ID,
			"user_id":        transaction.UserID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return nil
}

// GetByID retrieves a ledger entry by its id
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get ledger entry", map[string]any{
			"transaction_id": id,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel)
}

// GetByIdempotencyKey retrieves the entry created under a client dedupe key
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get ledger entry by idempotency key", map[string]any{
			"idempotency_key": key,
			"error":           result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return r.modelToEntity(&transactionModel)
}

// UpdateStatus flips an entry's status, guarded by the expected prior status.
// The guard in the WHERE clause is what keeps the state machine honest under
// concurrent refunds: only one of two racing transitions sees RowsAffected=1.
func (r *LedgerRepository) UpdateStatus(ctx context.Context, id string, from, to entity.TransactionStatus, processedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":       string(to),
			"processed_at": processedAt,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update ledger entry status", map[string]any{
			"transaction_id": id,
			"from":           from,
			"to":             to,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Ledger entry not in expected status", map[string]any{
			"transaction_id": id,
			"from":           from,
			"to":             to,
		})
		return errs.ErrTransactionNotFound
	}

	r.logger.Debug("Ledger entry status updated", map[string]any{
		"transaction_id": id,
		"from":           from,
		"to":             to,
	})
	return nil
}

// List returns a user's ledger entries matching the filter, newest first
func (r *LedgerRepository) List(ctx context.Context, userID string, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("user_id = ?", userID)

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		query = query.Where("type IN ?", types)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.MinMagnitude != nil {
		query = query.Where("ABS(amount) >= ?", *filter.MinMagnitude)
	}
	if filter.MaxMagnitude != nil {
		query = query.Where("ABS(amount) <= ?", *filter.MaxMagnitude)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var transactionModels []model.Transaction
	result := query.Order("created_at DESC").Find(&transactionModels)

	if result.Error != nil {
		r.logger.Error("Failed to list ledger entries", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(transactionModels))
	for i := range transactionModels {
		transaction, err := r.modelToEntity(&transactionModels[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, nil
}

// SumAppliedByUser computes the signed per-bucket sums of the entries that
// have been applied to the balance projection, straight from the ledger rows.
// Refunded originals stay in the sum: the flip to refunded never un-applies
// the entry, its reversing refund nets it out.
func (r *LedgerRepository) SumAppliedByUser(ctx context.Context, userID string) (entity.BucketTotals, error) {
	var sums struct {
		Available        int64
		Pending          int64
		PlatformCredit   int64
		ReferralEarnings int64
	}

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN bucket = ? THEN amount ELSE 0 END), 0) AS available, "+
				"COALESCE(SUM(CASE WHEN bucket = ? THEN amount ELSE 0 END), 0) AS pending, "+
				"COALESCE(SUM(CASE WHEN bucket = ? THEN amount ELSE 0 END), 0) AS platform_credit, "+
				"COALESCE(SUM(CASE WHEN bucket = ? THEN amount ELSE 0 END), 0) AS referral_earnings",
			string(entity.BucketAvailable),
			string(entity.BucketPending),
			string(entity.BucketPlatformCredit),
			string(entity.BucketReferralEarnings),
		).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(entity.StatusCompleted),
			string(entity.StatusRefunded),
		}).
		Scan(&sums)

	if result.Error != nil {
		r.logger.Error("Failed to sum ledger entries", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return entity.BucketTotals{}, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return entity.BucketTotals{
		Available:        sums.Available,
		Pending:          sums.Pending,
		PlatformCredit:   sums.PlatformCredit,
		ReferralEarnings: sums.ReferralEarnings,
	}, nil
}
