package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// EntryUseCase applies single ledger entries and exposes the type-checked
// credit/debit wrappers consumed by calling workflows.
type EntryUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	processor  *EntryProcessor
	retrier    Retrier
	cache      Cache
	metrics    *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	processor *EntryProcessor,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *EntryUseCase {
	return &EntryUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		processor:  processor,
		retrier:    retrier,
		cache:      cache,
		metrics:    m,
	}
}

// Credit applies a CREDIT_* entry.
func (uc *EntryUseCase) Credit(ctx context.Context, input ApplyEntryInput) (*ApplyEntryResult, error) {
	if !input.Type.IsCredit() {
		return nil, domain.ErrEntryTypeNotAllowed
	}

	return uc.ApplyEntry(ctx, input)
}

// Debit applies a DEBIT_* entry.
func (uc *EntryUseCase) Debit(ctx context.Context, input ApplyEntryInput) (*ApplyEntryResult, error) {
	if !input.Type.IsDebit() {
		return nil, domain.ErrEntryTypeNotAllowed
	}

	return uc.ApplyEntry(ctx, input)
}

// ApplyEntry applies one entry inside a single transaction: lock wallet,
// check idempotency key, write entry, update cached balances, commit.
func (uc *EntryUseCase) ApplyEntry(ctx context.Context, input ApplyEntryInput) (*ApplyEntryResult, error) {
	start := time.Now()

	var result *ApplyEntryResult

	operation := func() error {
		res, err := uc.applyOnce(ctx, input)
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
		if uc.metrics != nil {
			uc.metrics.EntryErrors.WithLabelValues(errorLabel(err)).Inc()
		}

		return nil, err
	}

	if uc.cache != nil && !result.Duplicate {
		_ = uc.cache.Delete(ctx, walletCacheKey(input.WalletID))
	}

	if uc.metrics != nil {
		if result.Duplicate {
			uc.metrics.DuplicateEntries.Inc()
		} else {
			uc.metrics.EntriesApplied.WithLabelValues(string(input.Type)).Inc()
		}
		uc.metrics.EntryDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (uc *EntryUseCase) applyOnce(ctx context.Context, input ApplyEntryInput) (*ApplyEntryResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, input.WalletID)
	if err != nil {
		return nil, err
	}

	entry, duplicate, err := uc.processor.Apply(txCtx, tx, wallet, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &ApplyEntryResult{Entry: entry, Wallet: wallet, Duplicate: duplicate}, nil
}

// errorLabel keeps metric label cardinality bounded.
func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrWalletNotFound):
		return "wallet_not_found"
	case errors.Is(err, domain.ErrWalletInactive):
		return "wallet_inactive"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrInsufficientAvailableBalance):
		return "insufficient_available_balance"
	case errors.Is(err, domain.ErrInsufficientPendingBalance):
		return "insufficient_pending_balance"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidEntryType), errors.Is(err, domain.ErrEntryTypeNotAllowed):
		return "invalid_entry_type"
	case errors.Is(err, domain.ErrMissingIdempotencyKey):
		return "missing_idempotency_key"
	default:
		return "storage"
	}
}
