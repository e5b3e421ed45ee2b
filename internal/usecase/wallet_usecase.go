package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// ErrInvalidStatusTransition is returned when a wallet status change is not
// allowed from the current state.
var ErrInvalidStatusTransition = errors.New("invalid wallet status transition")

// WalletUseCase manages wallet lifecycle and reads.
type WalletUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	idGen      IDGenerator
	cache      Cache
	metrics    *metrics.Metrics
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
) *WalletUseCase {
	return &WalletUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		idGen:      idGen,
		cache:      cache,
		metrics:    m,
	}
}

// GetOrCreateWalletInput identifies a wallet by ownership.
type GetOrCreateWalletInput struct {
	TenantID string
	Type     domain.WalletType
	OwnerRef *string
	Currency string
	Metadata map[string]any
}

// GetOrCreateWallet returns the wallet for the (tenant, type, owner) triple,
// creating it with zero balances on first use. Two concurrent first-use
// callers race on the unique ownership index; the loser refetches the row
// the winner inserted.
func (uc *WalletUseCase) GetOrCreateWallet(ctx context.Context, input GetOrCreateWalletInput) (*domain.Wallet, error) {
	if input.TenantID == "" {
		return nil, domain.ErrInvalidTenant
	}

	if !input.Type.Valid() {
		return nil, domain.ErrInvalidWalletType
	}

	if err := domain.ValidateOwnership(input.Type, input.OwnerRef); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateMetadata(input.Metadata); err != nil {
		return nil, err
	}

	wallet, err := uc.walletRepo.GetByOwner(ctx, input.TenantID, input.Type, input.OwnerRef)
	if err == nil {
		return wallet, nil
	}

	if !errors.Is(err, domain.ErrWalletNotFound) {
		return nil, err
	}

	now := time.Now().UTC()

	wallet = &domain.Wallet{
		ID:               uc.idGen.Generate(),
		TenantID:         input.TenantID,
		Type:             input.Type,
		OwnerRef:         input.OwnerRef,
		Currency:         input.Currency,
		Status:           domain.WalletStatusActive,
		Balance:          decimal.Zero,
		PendingBalance:   decimal.Zero,
		AvailableBalance: decimal.Zero,
		Version:          1,
		Metadata:         input.Metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err = uc.walletRepo.Create(ctx, wallet)
	if err == nil {
		if uc.metrics != nil {
			uc.metrics.WalletsCreated.Inc()
		}
		return wallet, nil
	}

	if errors.Is(err, domain.ErrWalletExists) {
		// Lost the creation race; the row now exists.
		return uc.walletRepo.GetByOwner(ctx, input.TenantID, input.Type, input.OwnerRef)
	}

	return nil, err
}

// GetWallet returns a wallet by id, served from the read cache when fresh.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	if uc.cache != nil {
		if data, err := uc.cache.Get(ctx, walletCacheKey(id)); err == nil && data != nil {
			var wallet domain.Wallet
			if err := json.Unmarshal(data, &wallet); err == nil {
				return &wallet, nil
			}
		}
	}

	wallet, err := uc.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(wallet); err == nil {
			_ = uc.cache.Set(ctx, walletCacheKey(id), data, WalletCacheTTL)
		}
	}

	return wallet, nil
}

// UpdateWalletStatus transitions a wallet between lifecycle states.
// Closed is terminal.
func (uc *WalletUseCase) UpdateWalletStatus(ctx context.Context, id string, status domain.WalletStatus) (*domain.Wallet, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatusTransition
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	wallet, err := uc.walletRepo.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if wallet.Status == status {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return wallet, nil
	}

	if wallet.Status == domain.WalletStatusClosed {
		return nil, domain.ErrWalletClosed
	}

	if !wallet.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	now := time.Now().UTC()

	if err := uc.walletRepo.UpdateStatus(ctx, tx, id, status, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	wallet.Status = status
	wallet.UpdatedAt = now

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, walletCacheKey(id))
	}

	return wallet, nil
}

// ListWallets returns a tenant's wallets, newest first.
func (uc *WalletUseCase) ListWallets(ctx context.Context, tenantID string, limit, offset int) ([]*domain.Wallet, error) {
	if tenantID == "" {
		return nil, domain.ErrInvalidTenant
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.walletRepo.List(ctx, tenantID, limit, offset)
}
