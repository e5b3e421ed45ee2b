package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// TransferUseCase composes a debit and a credit entry into one atomic
// cross-wallet transfer.
type TransferUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	processor  *EntryProcessor
	retrier    Retrier
	cache      Cache
	metrics    *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	processor *EntryProcessor,
	retrier Retrier,
	cache Cache,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		processor:  processor,
		retrier:    retrier,
		cache:      cache,
		metrics:    m,
	}
}

// TransferInput is the request to move funds between two wallets.
type TransferInput struct {
	FromWalletID   string
	ToWalletID     string
	Amount         decimal.Decimal
	IdempotencyKey string
	Reference      EntryReference
}

// TransferResult is the outcome of a transfer. On a duplicate replay only
// the debit leg is re-read; the credit leg is guaranteed to exist because
// both legs commit together.
type TransferResult struct {
	DebitEntry  *domain.Entry
	CreditEntry *domain.Entry
	FromWallet  *domain.Wallet
	ToWallet    *domain.Wallet
	Duplicate   bool
}

// Transfer debits the source wallet and credits the destination in one
// transaction. Both wallet rows are locked in ascending id order before
// either balance is read, so two opposite-direction transfers on the same
// pair cannot deadlock.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromWalletID == input.ToWalletID {
		return nil, domain.ErrSameWallet
	}

	if input.IdempotencyKey == "" {
		return nil, domain.ErrMissingIdempotencyKey
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	var result *TransferResult

	operation := func() error {
		res, err := uc.transferOnce(ctx, input)
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

	if uc.cache != nil && !result.Duplicate {
		_ = uc.cache.Delete(ctx, walletCacheKey(input.FromWalletID))
		_ = uc.cache.Delete(ctx, walletCacheKey(input.ToWalletID))
	}

	if uc.metrics != nil && !result.Duplicate {
		uc.metrics.TransfersCreated.Inc()
		amount, _ := input.Amount.Float64()
		uc.metrics.TransferAmount.Observe(amount)
	}

	return result, nil
}

func (uc *TransferUseCase) transferOnce(ctx context.Context, input TransferInput) (*TransferResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Deadlock prevention: lock both rows in a deterministic order.
	ids := []string{input.FromWalletID, input.ToWalletID}
	sort.Strings(ids)

	wallets, err := uc.walletRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(wallets) != len(ids) {
		return nil, domain.ErrWalletNotFound
	}

	var from, to *domain.Wallet
	for _, w := range wallets {
		switch w.ID {
		case input.FromWalletID:
			from = w
		case input.ToWalletID:
			to = w
		}
	}

	if from == nil || to == nil {
		return nil, domain.ErrWalletNotFound
	}

	// The two legs always commit together, so the debit sub-key alone
	// decides whether the whole transfer was already applied.
	debitKey := domain.TransferDebitKey(input.IdempotencyKey)

	existing, err := uc.entryRepo.GetByIdempotencyKey(txCtx, tx, debitKey)
	if err == nil {
		return &TransferResult{
			DebitEntry: existing,
			FromWallet: from,
			ToWallet:   to,
			Duplicate:  true,
		}, nil
	}

	if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	if !from.IsActive() || !to.IsActive() {
		return nil, domain.ErrWalletInactive
	}

	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	// Transfers draw on available funds: held amounts cannot be moved.
	if from.AvailableBalance.LessThan(input.Amount) {
		return nil, domain.ErrInsufficientAvailableBalance
	}

	debitRef := input.Reference
	debitRef.CounterpartyWalletID = to.ID

	debitEntry, _, err := uc.processor.Apply(txCtx, tx, from, ApplyEntryInput{
		WalletID:       from.ID,
		Type:           domain.EntryTypeDebitTransferOut,
		Amount:         input.Amount,
		IdempotencyKey: debitKey,
		Reference:      debitRef,
	})
	if err != nil {
		return nil, err
	}

	creditRef := input.Reference
	creditRef.CounterpartyWalletID = from.ID

	creditEntry, _, err := uc.processor.Apply(txCtx, tx, to, ApplyEntryInput{
		WalletID:       to.ID,
		Type:           domain.EntryTypeCreditTransferIn,
		Amount:         input.Amount,
		IdempotencyKey: domain.TransferCreditKey(input.IdempotencyKey),
		Reference:      creditRef,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &TransferResult{
		DebitEntry:  debitEntry,
		CreditEntry: creditEntry,
		FromWallet:  from,
		ToWallet:    to,
		Duplicate:   false,
	}, nil
}
