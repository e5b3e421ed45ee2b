package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// RecalculateResult reports the balances recomputed from the ledger log and
// whether they differed from the cached wallet row.
type RecalculateResult struct {
	WalletID         string
	Balance          decimal.Decimal
	PendingBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	EntryCount       int
	Drifted          bool
	CheckedAt        time.Time
}

// ReconcileUseCase recomputes wallet balances by replaying the full ledger
// log. The log is the source of truth; the wallet row is a projection that
// this use case can rebuild at any time.
type ReconcileUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	retrier    Retrier
	cache      Cache
	metrics    *metrics.Metrics
}

// NewReconcileUseCase creates a new ReconcileUseCase.
func NewReconcileUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		retrier:    retrier,
		cache:      cache,
		metrics:    m,
	}
}

// Recalculate replays every completed entry for the wallet and overwrites
// the cached balances with the result. The wallet row is locked while the
// log is read so the replay sees a consistent cut; entries written after the
// lock is taken are simply picked up by the next run.
func (uc *ReconcileUseCase) Recalculate(ctx context.Context, walletID string) (*RecalculateResult, error) {
	var result *RecalculateResult

	operation := func() error {
		res, err := uc.recalculateOnce(ctx, walletID)
		if err != nil {
			return err
		}

		result = res

		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, walletCacheKey(walletID))
	}

	if uc.metrics != nil {
		uc.metrics.Recalculations.Inc()
		if result.Drifted {
			uc.metrics.DriftDetected.Inc()
		}
	}

	return result, nil
}

func (uc *ReconcileUseCase) recalculateOnce(ctx context.Context, walletID string) (*RecalculateResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
	if err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListForReplay(txCtx, tx, walletID)
	if err != nil {
		return nil, err
	}

	replayed := domain.ReplayEntries(entries)

	drifted := !replayed.Balance.Equal(wallet.Balance) ||
		!replayed.PendingBalance.Equal(wallet.PendingBalance) ||
		!replayed.AvailableBalance.Equal(wallet.AvailableBalance)

	now := time.Now().UTC()

	// Overwrite unconditionally. Writing the same values back is harmless
	// and keeps the repair path free of read-then-maybe-write races.
	if err := uc.walletRepo.UpdateBalances(txCtx, tx, walletID, replayed.Balance, replayed.PendingBalance, replayed.AvailableBalance, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &RecalculateResult{
		WalletID:         walletID,
		Balance:          replayed.Balance,
		PendingBalance:   replayed.PendingBalance,
		AvailableBalance: replayed.AvailableBalance,
		EntryCount:       replayed.EntryCount,
		Drifted:          drifted,
		CheckedAt:        now,
	}, nil
}
