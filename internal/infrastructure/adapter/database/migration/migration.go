package migration

import (
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", nil)

	if err := m.autoMigrateModels(); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.createIndexes(); err != nil {
		m.logger.Error("Failed to create indexes", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Database migrations completed", nil)
	return nil
}

// autoMigrateModels auto-migrates database models
func (m *MigrationManager) autoMigrateModels() error {
	return m.db.AutoMigrate(
		&model.WalletBalance{},
		&model.Transaction{},
		&model.WebhookActivity{},
		&model.OutboxMessage{},
	)
}

// createIndexes creates composite indexes AutoMigrate cannot express
func (m *MigrationManager) createIndexes() error {
	indexes := []string{
		// Ledger listing is always per user, newest first.
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_created
			ON transactions (user_id, created_at DESC)`,
		// Reconciliation sums completed entries per user and bucket.
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_status_bucket
			ON transactions (user_id, status, bucket)`,
		// Dispatcher claim scan touches only undelivered rows.
		`CREATE INDEX IF NOT EXISTS idx_outbox_deliverable
			ON outbox_messages (status, next_attempt_at)
			WHERE status IN ('unprocessed', 'processing')`,
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return err
		}
	}

	return nil
}
