package usecase

import (
	"context"

	"github.com/venduo/walletledger/internal/domain"
)

// LedgerUseCase serves read-only queries over the append-only entry log.
type LedgerUseCase struct {
	walletRepo WalletRepository
	entryRepo  EntryRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(walletRepo WalletRepository, entryRepo EntryRepository) *LedgerUseCase {
	return &LedgerUseCase{
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
	}
}

// GetLedgerEntries returns a wallet's entries newest first, optionally
// filtered by type, reference and time range.
func (uc *LedgerUseCase) GetLedgerEntries(ctx context.Context, walletID string, filter domain.EntryFilter) ([]*domain.Entry, error) {
	if _, err := uc.walletRepo.GetByID(ctx, walletID); err != nil {
		return nil, err
	}

	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.entryRepo.ListByWallet(ctx, walletID, filter)
}

// GetEntry returns a single ledger entry by id.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*domain.Entry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}
