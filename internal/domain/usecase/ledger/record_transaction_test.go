package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/logger"
	mockcore "github.com/eventpay/wallet-ledger/mocks/port/core"
	mockpersistence "github.com/eventpay/wallet-ledger/mocks/port/persistence"
)

// serviceFixture wires a ledger service over mocks. The unit of work hands
// out the tx-scoped repositories; ledgerRepo doubles as the plain read path.
type serviceFixture struct {
	service     *Service
	uow         *mockpersistence.MockUnitOfWork
	ledgerRepo  *mockpersistence.MockLedgerRepository
	balanceRepo *mockpersistence.MockBalanceRepository
	outboxRepo  *mockpersistence.MockOutboxRepository
	fixedTime   time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	fixedTime := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	tp := new(mockcore.MockTimeProvider)
	tp.On("Now").Return(fixedTime)

	idGen := new(mockcore.MockIDGenerator)
	idGen.On("NewID").Return("generated-id")

	f := &serviceFixture{
		uow:         new(mockpersistence.MockUnitOfWork),
		ledgerRepo:  new(mockpersistence.MockLedgerRepository),
		balanceRepo: new(mockpersistence.MockBalanceRepository),
		outboxRepo:  new(mockpersistence.MockOutboxRepository),
		fixedTime:   fixedTime,
	}
	f.service = NewService(f.uow, f.ledgerRepo, idGen, tp, logger.NewNoopLogger(), "USD")
	return f
}

// expectUnitOfWork arms the happy-path transaction plumbing
func (f *serviceFixture) expectUnitOfWork(ctx context.Context) {
	f.uow.On("Begin", mock.Anything).Return(ctx, nil)
	f.uow.On("Ledger", mock.Anything).Return(f.ledgerRepo)
	f.uow.On("Balances", mock.Anything).Return(f.balanceRepo)
	f.uow.On("Outbox", mock.Anything).Return(f.outboxRepo)
}

func TestRecordTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("appends the entry and updates the projection atomically", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		balance := &entity.WalletBalance{UserID: "user-1", Available: 1000, Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-1").Return(balance, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.UserID == "user-1" &&
				txn.Type == entity.TypeDeposit &&
				txn.Amount == 2500 &&
				txn.Status == entity.StatusCompleted
		})).Return(nil)
		f.balanceRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *entity.WalletBalance) bool {
			return b.Available == 3500
		})).Return(nil)
		f.outboxRepo.On("Enqueue", mock.Anything, mock.MatchedBy(func(msg *entity.OutboxMessage) bool {
			return msg.Topic == entity.TopicTransactionCreated && msg.Status == entity.OutboxUnprocessed
		})).Return(nil)
		f.uow.On("Commit", mock.Anything).Return(nil)

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-1",
			Type:   entity.TypeDeposit,
			Amount: 2500,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(2500), txn.Amount)
		assert.Equal(t, "USD", txn.Currency)
		f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
		f.uow.AssertExpectations(t)
		f.ledgerRepo.AssertExpectations(t)
		f.balanceRepo.AssertExpectations(t)
		f.outboxRepo.AssertExpectations(t)
	})

	t.Run("overdraft rolls the whole write back", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		balance := &entity.WalletBalance{UserID: "user-1", Available: 100, Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-1").Return(balance, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.uow.On("Rollback", mock.Anything).Return(nil)

		_, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-1",
			Type:   entity.TypeWithdrawal,
			Amount: 101,
		})

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		f.uow.AssertCalled(t, "Rollback", mock.Anything)
		f.uow.AssertNotCalled(t, "Commit", mock.Anything)
		f.balanceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		f.outboxRepo.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
	})

	t.Run("idempotent replay short-circuits before the unit of work", func(t *testing.T) {
		f := newServiceFixture(t)

		existing := &entity.Transaction{ID: "tx-existing", UserID: "user-1", Amount: 2500}
		f.ledgerRepo.On("GetByIdempotencyKey", mock.Anything, "key-1").Return(existing, nil)

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID:         "user-1",
			Type:           entity.TypeDeposit,
			Amount:         2500,
			IdempotencyKey: "key-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, existing, txn)
		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("losing the idempotency race returns the winner's entry", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		winner := &entity.Transaction{ID: "tx-winner", UserID: "user-1", Amount: 2500}
		f.ledgerRepo.On("GetByIdempotencyKey", mock.Anything, "key-1").
			Return(nil, errs.ErrTransactionNotFound).Once()
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDuplicateTransaction)
		f.uow.On("Rollback", mock.Anything).Return(nil)
		f.ledgerRepo.On("GetByIdempotencyKey", mock.Anything, "key-1").Return(winner, nil).Once()

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID:         "user-1",
			Type:           entity.TypeDeposit,
			Amount:         2500,
			IdempotencyKey: "key-1",
		})

		assert.NoError(t, err)
		assert.Equal(t, winner, txn)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("first write provisions the balance row under lock", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		fresh := &entity.WalletBalance{UserID: "user-new", Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-new").
			Return(nil, errs.ErrBalanceNotFound).Once()
		f.balanceRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *entity.WalletBalance) bool {
			return b.UserID == "user-new" && b.Total() == 0
		})).Return(nil)
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-new").Return(fresh, nil).Once()
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.outboxRepo.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
		f.uow.On("Commit", mock.Anything).Return(nil)

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-new",
			Type:   entity.TypeDeposit,
			Amount: 100,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(100), txn.Amount)
		f.balanceRepo.AssertExpectations(t)
	})

	t.Run("losing the provisioning race mid-transaction still commits", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		winner := &entity.WalletBalance{UserID: "user-new", Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-new").
			Return(nil, errs.ErrBalanceNotFound).Once()
		f.balanceRepo.On("Create", mock.Anything, mock.Anything).Return(errs.ErrDuplicateBalance)
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-new").Return(winner, nil).Once()
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.outboxRepo.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
		f.uow.On("Commit", mock.Anything).Return(nil)

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-new",
			Type:   entity.TypeDeposit,
			Amount: 250,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(250), txn.Amount)
		f.uow.AssertNotCalled(t, "Rollback", mock.Anything)
		f.balanceRepo.AssertExpectations(t)
	})

	t.Run("invalid requests never reach the store", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-1",
			Type:   entity.TypeRefund,
			Amount: 100,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidTransactionType)

		_, err = f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-1",
			Type:   entity.TypeDeposit,
			Amount: 0,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)

		f.uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("blank currency falls back to the service default", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		balance := &entity.WalletBalance{UserID: "user-1", Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-1").Return(balance, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Currency == "USD"
		})).Return(nil)
		f.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.outboxRepo.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
		f.uow.On("Commit", mock.Anything).Return(nil)

		txn, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID: "user-1",
			Type:   entity.TypeDeposit,
			Amount: 100,
		})

		assert.NoError(t, err)
		assert.Equal(t, "USD", txn.Currency)
	})

	t.Run("metadata is normalized onto the entry", func(t *testing.T) {
		f := newServiceFixture(t)
		f.expectUnitOfWork(ctx)

		balance := &entity.WalletBalance{UserID: "user-1", Currency: "USD"}
		f.balanceRepo.On("GetForUpdate", mock.Anything, "user-1").Return(balance, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *entity.Transaction) bool {
			return txn.Metadata["orderId"] == "ord-42" && txn.Metadata["quantity"] == "3"
		})).Return(nil)
		f.balanceRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.outboxRepo.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
		f.uow.On("Commit", mock.Anything).Return(nil)

		_, err := f.service.RecordTransaction(ctx, RecordRequest{
			UserID:   "user-1",
			Type:     entity.TypeDeposit,
			Amount:   100,
			Metadata: map[string]any{"orderId": "ord-42", "quantity": 3, "skip": nil},
		})

		assert.NoError(t, err)
		f.ledgerRepo.AssertExpectations(t)
	})
}
