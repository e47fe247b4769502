package ledger

import (
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// Service implements the transaction ledger: recording entries, refunds and
// filtered listing. Every balance-affecting write goes through the unit of
// work so the ledger append, the projection update and the outbox enqueue
// commit together.
type Service struct {
	uow             persistence.UnitOfWork
	ledgerRepo      persistence.LedgerRepository
	idGenerator     coreport.IDGenerator
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	defaultCurrency string
}

// NewService creates a new ledger service. ledgerRepo is the non-transactional
// repository used for reads that do not need the unit of work.
func NewService(
	uow persistence.UnitOfWork,
	ledgerRepo persistence.LedgerRepository,
	idGenerator coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	defaultCurrency string,
) *Service {
	return &Service{
		uow:             uow,
		ledgerRepo:      ledgerRepo,
		idGenerator:     idGenerator,
		timeProvider:    timeProvider,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}
