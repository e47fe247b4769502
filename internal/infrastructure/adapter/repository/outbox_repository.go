package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OutboxRepository implements OutboxRepository interface using GORM
type OutboxRepository struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewOutboxRepository creates a new OutboxRepository instance
func NewOutboxRepository(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *OutboxRepository {
	return &OutboxRepository{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// entityToModel converts an outbox message entity to a database model
func (r *OutboxRepository) entityToModel(message *entity.OutboxMessage) model.OutboxMessage {
	return model.OutboxMessage{
		ID:            message.ID,
		Topic:         message.Topic,
		Payload:       message.Payload,
		Status:        string(message.Status),
		Attempts:      message.Attempts,
		NextAttemptAt: message.NextAttemptAt,
		LastError:     message.LastError,
		CreatedAt:     message.CreatedAt,
		PublishedAt:   message.PublishedAt,
	}
}

// modelToEntity converts an outbox message model to an entity
func (r *OutboxRepository) modelToEntity(messageModel *model.OutboxMessage) *entity.OutboxMessage {
	return &entity.OutboxMessage{
		ID:            messageModel.ID,
		Topic:         messageModel.Topic,
		Payload:       messageModel.Payload,
		Status:        entity.OutboxStatus(messageModel.Status),
		Attempts:      messageModel.Attempts,
		NextAttemptAt: messageModel.NextAttemptAt,
		LastError:     messageModel.LastError,
		CreatedAt:     messageModel.CreatedAt,
		PublishedAt:   messageModel.PublishedAt,
	}
}

// Enqueue stages a message inside the caller's transaction
func (r *OutboxRepository) Enqueue(ctx context.Context, message *entity.OutboxMessage) error {
	messageModel := r.entityToModel(message)
	result := r.db.WithContext(ctx).Create(&messageModel)

	if result.Error != nil {
		r.logger.Error("Failed to enqueue outbox message", map[string]any{
			"message_id": message.ID,
			"topic":      message.Topic,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return nil
}

// ClaimBatch atomically claims up to limit deliverable messages: unprocessed
// rows whose next attempt is due, plus processing rows whose claim went stale.
// SKIP LOCKED lets concurrent dispatchers claim disjoint batches.
func (r *OutboxRepository) ClaimBatch(ctx context.Context, limit int, staleAfter time.Duration) ([]*entity.OutboxMessage, error) {
	now := r.timeProvider.Now()
	staleCutoff := now.Add(-staleAfter)

	var messageModels []model.OutboxMessage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("(status = ? AND next_attempt_at <= ?) OR (status = ? AND claimed_at <= ?)",
				string(entity.OutboxUnprocessed), now,
				string(entity.OutboxProcessing), staleCutoff).
			Order("next_attempt_at").
			Limit(limit).
			Find(&messageModels)
		if result.Error != nil {
			return result.Error
		}
		if len(messageModels) == 0 {
			return nil
		}

		ids := make([]string, 0, len(messageModels))
		for i := range messageModels {
			ids = append(ids, messageModels[i].ID)
		}

		return tx.Model(&model.OutboxMessage{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     string(entity.OutboxProcessing),
				"claimed_at": now,
			}).Error
	})

	if err != nil {
		r.logger.Error("Failed to claim outbox batch", map[string]any{
			"limit": limit,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrStorage, err.Error())
	}

	messages := make([]*entity.OutboxMessage, 0, len(messageModels))
	for i := range messageModels {
		message := r.modelToEntity(&messageModels[i])
		message.Status = entity.OutboxProcessing
		messages = append(messages, message)
	}

	return messages, nil
}

// MarkPublished finalizes a delivered message
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string) error {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(entity.OutboxPublished),
			"published_at": now,
			"claimed_at":   nil,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark outbox message published", map[string]any{
			"message_id": id,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return nil
}

// MarkFailed records a failed publish. The status flips in the same statement
// that increments attempts, so a racing dispatcher cannot double-count.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id string, retryAfter time.Duration, reason string, maxAttempts int) error {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts": gorm.Expr("attempts + 1"),
			"status": gorm.Expr("CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END",
				maxAttempts, string(entity.OutboxDead), string(entity.OutboxUnprocessed)),
			"next_attempt_at": now.Add(retryAfter),
			"last_error":      reason,
			"claimed_at":      nil,
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark outbox message failed", map[string]any{
			"message_id": id,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return nil
}

// Stats reports unprocessed and dead-letter counts. Claimed-but-unpublished
// messages count as unprocessed: they have not been delivered yet.
func (r *OutboxRepository) Stats(ctx context.Context) (entity.OutboxStats, error) {
	var stats entity.OutboxStats

	result := r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("status IN ?", []string{
			string(entity.OutboxUnprocessed),
			string(entity.OutboxProcessing),
		}).
		Count(&stats.Unprocessed)
	if result.Error != nil {
		r.logger.Error("Failed to count unprocessed outbox messages", map[string]any{
			"error": result.Error.Error(),
		})
		return entity.OutboxStats{}, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	result = r.db.WithContext(ctx).Model(&model.OutboxMessage{}).
		Where("status = ?", string(entity.OutboxDead)).
		Count(&stats.DLQ)
	if result.Error != nil {
		r.logger.Error("Failed to count dead-lettered outbox messages", map[string]any{
			"error": result.Error.Error(),
		})
		return entity.OutboxStats{}, fmt.Errorf("%w: %s", errs.ErrStorage, result.Error.Error())
	}

	return stats, nil
}
