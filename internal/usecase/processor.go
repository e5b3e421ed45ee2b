package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
)

// EntryReference carries the audit trail for an entry: the business record
// that caused it and who issued it.
type EntryReference struct {
	ReferenceType        string
	ReferenceID          string
	CounterpartyWalletID string
	HoldID               string
	Description          string
	Metadata             map[string]any
	CreatedBy            string
}

// ApplyEntryInput is the request to apply one ledger entry.
// Amount is the non-negative operation amount; the stored amount is signed
// by entry type.
type ApplyEntryInput struct {
	WalletID       string
	Type           domain.EntryType
	Amount         decimal.Decimal
	IdempotencyKey string
	Reference      EntryReference
}

// ApplyEntryResult is the outcome of applying (or replaying) an entry.
type ApplyEntryResult struct {
	Entry     *domain.Entry
	Wallet    *domain.Wallet
	Duplicate bool
}

// EntryProcessor is the sole place wallet balances are mutated. Every
// mutation writes exactly one ledger entry and one wallet update inside the
// caller's transaction.
type EntryProcessor struct {
	walletRepo WalletRepository
	entryRepo  EntryRepository
	idGen      IDGenerator
}

// NewEntryProcessor creates a new EntryProcessor.
func NewEntryProcessor(walletRepo WalletRepository, entryRepo EntryRepository, idGen IDGenerator) *EntryProcessor {
	return &EntryProcessor{
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		idGen:      idGen,
	}
}

// Apply validates and applies a single entry against a wallet that the
// caller has already locked inside tx. On an idempotency-key replay the
// previously written entry is returned with duplicate=true and nothing is
// written. The wallet struct is mutated in place on success.
func (p *EntryProcessor) Apply(ctx context.Context, tx Transaction, wallet *domain.Wallet, input ApplyEntryInput) (*domain.Entry, bool, error) {
	if input.IdempotencyKey == "" {
		return nil, false, domain.ErrMissingIdempotencyKey
	}

	if !input.Type.Valid() {
		return nil, false, domain.ErrInvalidEntryType
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, false, err
	}

	if err := domain.ValidateMetadata(input.Reference.Metadata); err != nil {
		return nil, false, err
	}

	if !wallet.IsActive() {
		return nil, false, domain.ErrWalletInactive
	}

	// Retry-safety contract: a key that already produced an entry returns
	// that entry unmodified. Not an error path.
	existing, err := p.entryRepo.GetByIdempotencyKey(ctx, tx, input.IdempotencyKey)
	if err == nil {
		return existing, true, nil
	}

	if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, false, err
	}

	if err := wallet.ValidateEntry(input.Type, input.Amount); err != nil {
		return nil, false, err
	}

	wallet.ApplyEntry(input.Type, input.Amount)

	now := time.Now().UTC()

	createdBy := input.Reference.CreatedBy
	if createdBy == "" {
		createdBy = SystemActor
	}

	entry := &domain.Entry{
		ID:                    p.idGen.Generate(),
		WalletID:              wallet.ID,
		Type:                  input.Type,
		Amount:                input.Type.Signed(input.Amount),
		Currency:              wallet.Currency,
		BalanceAfter:          wallet.Balance,
		PendingBalanceAfter:   wallet.PendingBalance,
		AvailableBalanceAfter: wallet.AvailableBalance,
		Status:                domain.EntryStatusCompleted,
		ReferenceType:         input.Reference.ReferenceType,
		ReferenceID:           input.Reference.ReferenceID,
		CounterpartyWalletID:  input.Reference.CounterpartyWalletID,
		HoldID:                input.Reference.HoldID,
		IdempotencyKey:        input.IdempotencyKey,
		Description:           input.Reference.Description,
		Metadata:              input.Reference.Metadata,
		CreatedBy:             createdBy,
		CreatedAt:             now,
	}

	if err := p.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, false, err
	}

	if err := p.walletRepo.UpdateBalances(ctx, tx, wallet.ID, wallet.Balance, wallet.PendingBalance, wallet.AvailableBalance, now); err != nil {
		return nil, false, err
	}

	wallet.Version++
	wallet.UpdatedAt = now

	return entry, false, nil
}
