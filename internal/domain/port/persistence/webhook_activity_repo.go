package persistence

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
)

// WebhookActivityRepository defines access to the append-only webhook audit
// trail. There is deliberately no update or delete: the log is immutable.
type WebhookActivityRepository interface {
	// Create appends an activity record
	//
	// Possible errors:
	// - ErrStorage
	Create(ctx context.Context, record *entity.WebhookActivityRecord) error
}
