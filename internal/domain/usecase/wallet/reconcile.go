package wallet

import (
	"context"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	errs "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/domain/port/persistence"
)

// InvariantReport summarizes one reconciliation sweep
type InvariantReport struct {
	OK         bool `json:"ok"`
	Checked    int  `json:"checked"`
	Violations int  `json:"violations"`
}

// Reconciler verifies the ledger-is-truth invariant: every balance projection
// must equal the signed per-bucket sum of the user's applied ledger entries
// (completed, plus refunded originals whose reversing refunds net them out).
// Drift is not fatal; it is logged and repaired from the ledger.
type Reconciler struct {
	balanceRepo  persistence.BalanceRepository
	ledgerRepo   persistence.LedgerRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewReconciler creates a new reconciler instance
func NewReconciler(
	balanceRepo persistence.BalanceRepository,
	ledgerRepo persistence.LedgerRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Reconciler {
	return &Reconciler{
		balanceRepo:  balanceRepo,
		ledgerRepo:   ledgerRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// CheckInvariants sweeps all provisioned balances, repairing any that drifted
// from their ledger sums. A storage failure aborts the sweep so the caller
// can report the check itself as unavailable.
func (r *Reconciler) CheckInvariants(ctx context.Context) (InvariantReport, error) {
	userIDs, err := r.balanceRepo.ListUserIDs(ctx)
	if err != nil {
		return InvariantReport{}, err
	}

	report := InvariantReport{OK: true}
	for _, userID := range userIDs {
		repaired, err := r.ReconcileUser(ctx, userID)
		if err != nil {
			return InvariantReport{}, err
		}
		report.Checked++
		if repaired {
			report.Violations++
			report.OK = false
		}
	}
	return report, nil
}

// ReconcileUser compares one user's projection to the ledger sum and repairs
// it on drift. Returns true when drift was found.
func (r *Reconciler) ReconcileUser(ctx context.Context, userID string) (bool, error) {
	balance, err := r.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	sums, err := r.ledgerRepo.SumAppliedByUser(ctx, userID)
	if err != nil {
		return false, err
	}

	if balance.Matches(sums) {
		return false, nil
	}

	drift := errs.NewDriftError(userID, driftedBucket(balance, sums), balance.Total(), sums.Total())
	if logged, ok := drift.(*errs.DriftError); ok {
		r.logger.Warn("Reconciliation drift detected, repairing from ledger", logged.LogFields())
	}

	balance.ResetTo(sums, r.timeProvider)
	if err := r.balanceRepo.Update(ctx, balance); err != nil {
		return true, err
	}
	return true, nil
}

// driftedBucket names the first bucket that disagrees, for logging
func driftedBucket(balance *entity.WalletBalance, sums entity.BucketTotals) string {
	switch {
	case balance.Available != sums.Available:
		return string(entity.BucketAvailable)
	case balance.Pending != sums.Pending:
		return string(entity.BucketPending)
	case balance.PlatformCredit != sums.PlatformCredit:
		return string(entity.BucketPlatformCredit)
	default:
		return string(entity.BucketReferralEarnings)
	}
}
