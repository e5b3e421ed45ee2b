package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// ErrMissingHoldID is returned when a hold operation omits the hold ID.
var ErrMissingHoldID = errors.New("hold id is required")

// HoldUseCase drives the three-phase hold protocol: create reserves funds
// against available balance, then exactly one of release or capture settles
// the hold. Idempotency keys are derived from the hold ID so retries of any
// phase collapse onto the same ledger rows.
type HoldUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	processor  *EntryProcessor
	retrier    Retrier
	cache      Cache
	metrics    *metrics.Metrics
}

// NewHoldUseCase creates a new HoldUseCase.
func NewHoldUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	processor *EntryProcessor,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *HoldUseCase {
	return &HoldUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		processor:  processor,
		retrier:    retrier,
		cache:      cache,
		metrics:    m,
	}
}

// HoldInput is the request for any hold phase. For release and capture a
// zero Amount means the full held amount.
type HoldInput struct {
	WalletID  string
	HoldID    string
	Amount    decimal.Decimal
	Reference EntryReference
}

// CreateHold reserves funds: pending balance rises, available balance falls,
// settled balance is untouched.
func (uc *HoldUseCase) CreateHold(ctx context.Context, input HoldInput) (*ApplyEntryResult, error) {
	if input.HoldID == "" {
		return nil, ErrMissingHoldID
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	result, err := uc.run(ctx, func(txCtx context.Context, tx Transaction, wallet *domain.Wallet) (*ApplyEntryResult, error) {
		ref := input.Reference
		ref.HoldID = input.HoldID

		entry, duplicate, err := uc.processor.Apply(txCtx, tx, wallet, ApplyEntryInput{
			WalletID:       wallet.ID,
			Type:           domain.EntryTypeHoldCreated,
			Amount:         input.Amount,
			IdempotencyKey: domain.HoldCreateKey(input.HoldID),
			Reference:      ref,
		})
		if err != nil {
			return nil, err
		}

		return &ApplyEntryResult{Entry: entry, Wallet: wallet, Duplicate: duplicate}, nil
	}, input.WalletID)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && !result.Duplicate {
		uc.metrics.HoldsCreated.Inc()
	}

	return result, nil
}

// ReleaseHold settles a hold without debiting: pending balance drops back
// and the funds become available again.
func (uc *HoldUseCase) ReleaseHold(ctx context.Context, input HoldInput) (*ApplyEntryResult, error) {
	result, err := uc.settle(ctx, input, domain.EntryTypeHoldReleased)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && !result.Duplicate {
		uc.metrics.HoldsReleased.Inc()
	}

	return result, nil
}

// CaptureHold settles a hold by debiting: both pending and settled balance
// drop by the captured amount. Capturing less than was held is allowed; the
// hold is still closed.
func (uc *HoldUseCase) CaptureHold(ctx context.Context, input HoldInput) (*ApplyEntryResult, error) {
	result, err := uc.settle(ctx, input, domain.EntryTypeHoldCaptured)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil && !result.Duplicate {
		uc.metrics.HoldsCaptured.Inc()
	}

	return result, nil
}

func (uc *HoldUseCase) settle(ctx context.Context, input HoldInput, terminal domain.EntryType) (*ApplyEntryResult, error) {
	if input.HoldID == "" {
		return nil, ErrMissingHoldID
	}

	key := domain.HoldReleaseKey(input.HoldID)
	if terminal == domain.EntryTypeHoldCaptured {
		key = domain.HoldCaptureKey(input.HoldID)
	}

	return uc.run(ctx, func(txCtx context.Context, tx Transaction, wallet *domain.Wallet) (*ApplyEntryResult, error) {
		entries, err := uc.entryRepo.ListByHold(txCtx, tx, wallet.ID, input.HoldID)
		if err != nil {
			return nil, err
		}

		state := domain.NewHoldState(input.HoldID, wallet.ID, entries)
		if state.Created == nil {
			return nil, domain.ErrHoldNotFound
		}

		if state.Settled() {
			if state.Terminal.Type == terminal {
				// Retry of the same terminal phase.
				return &ApplyEntryResult{Entry: state.Terminal, Wallet: wallet, Duplicate: true}, nil
			}

			return nil, domain.ErrHoldAlreadySettled
		}

		amount := input.Amount
		if amount.IsZero() {
			amount = state.HeldAmount
		}

		if amount.GreaterThan(state.HeldAmount) {
			return nil, fmt.Errorf("%w: amount %s exceeds held amount %s", domain.ErrInvalidAmount, amount, state.HeldAmount)
		}

		ref := input.Reference
		ref.HoldID = input.HoldID

		entry, duplicate, err := uc.processor.Apply(txCtx, tx, wallet, ApplyEntryInput{
			WalletID:       wallet.ID,
			Type:           terminal,
			Amount:         amount,
			IdempotencyKey: key,
			Reference:      ref,
		})
		if err != nil {
			return nil, err
		}

		return &ApplyEntryResult{Entry: entry, Wallet: wallet, Duplicate: duplicate}, nil
	}, input.WalletID)
}

// run executes op against the locked wallet inside one retried transaction
// and invalidates the wallet cache after a non-duplicate commit.
func (uc *HoldUseCase) run(
	ctx context.Context,
	op func(txCtx context.Context, tx Transaction, wallet *domain.Wallet) (*ApplyEntryResult, error),
	walletID string,
) (*ApplyEntryResult, error) {
	var result *ApplyEntryResult

	operation := func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		wallet, err := uc.walletRepo.GetByIDForUpdate(txCtx, tx, walletID)
		if err != nil {
			return err
		}

		res, err := op(txCtx, tx, wallet)
		if err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
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

	if uc.cache != nil && !result.Duplicate {
		_ = uc.cache.Delete(ctx, walletCacheKey(walletID))
	}

	return result, nil
}
