package repository

import (
	"context"
	"fmt"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// WebhookActivityRepository implements WebhookActivityRepository using GORM.
// The table is append-only; there is no update or delete path.
type WebhookActivityRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewWebhookActivityRepository creates a new WebhookActivityRepository instance
func NewWebhookActivityRepository(db *gorm.DB, logger coreport.Logger) *WebhookActivityRepository {
	return &WebhookActivityRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an activity record
func (r *WebhookActivityRepository) Create(ctx context.Context, record *entity.WebhookActivityRecord) error {
	activityModel := model.WebhookActivity{
		ID:           record.ID,
		Provider:     record.Provider,
		EventType:    record.EventType,
		Payload:      record.Payload,
		Status:       string(record.Status),
		ErrorMessage: record.ErrorMessage,
		Timestamp:    record.Timestamp,
	}

	result := r.db.WithContext(ctx).Create(&activityModel)

	if result.Error != nil {
		r.logger.Error("Failed to append webhook activity record", map[string]any{
			"activity_id": record.ID,
			"provider":    record.Provider,
			"event_type":  record.EventType,
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return nil
}
