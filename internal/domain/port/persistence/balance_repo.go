package persistence

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
)

// BalanceRepository defines access to the wallet balance projection
type BalanceRepository interface {
	// GetByUserID retrieves the balance row for a user
	//
	// Possible errors:
	// - ErrBalanceNotFound: no row exists yet for this user
	// - ErrStorage: the backing store is unavailable
	GetByUserID(ctx context.Context, userID string) (*entity.WalletBalance, error)

	// GetForUpdate retrieves the balance row and locks it for the duration of
	// the surrounding unit of work. Concurrent balance-affecting operations
	// for the same user serialize on this lock.
	//
	// Possible errors:
	// - ErrBalanceNotFound, ErrStorage, ErrConflict
	GetForUpdate(ctx context.Context, userID string) (*entity.WalletBalance, error)

	// Create inserts the initial zero balance row. The unique constraint on
	// user_id makes lazy provisioning idempotent: callers treat
	// ErrDuplicateBalance as success and re-read. A duplicate must be
	// reported without raising a database error, since provisioning can run
	// inside an open transaction that an error would abort.
	//
	// Possible errors:
	// - ErrDuplicateBalance: a row already exists for this user
	// - ErrStorage
	Create(ctx context.Context, balance *entity.WalletBalance) error

	// Update persists the projection after ledger entries were applied
	//
	// Possible errors:
	// - ErrBalanceNotFound, ErrStorage, ErrConflict
	Update(ctx context.Context, balance *entity.WalletBalance) error

	// ListUserIDs returns the user ids of all provisioned balances, for the
	// reconciliation sweep
	ListUserIDs(ctx context.Context) ([]string, error)
}
