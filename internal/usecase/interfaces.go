package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
)

// WalletRepository defines data access for wallets.
type WalletRepository interface {
	// Create inserts a new wallet. Returns domain.ErrWalletExists when a
	// wallet for the same (tenant, type, owner) already exists.
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id string) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, tenantID string, walletType domain.WalletType, ownerRef *string) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Wallet, error)
	// GetByIDsForUpdate locks wallets in ascending id order regardless of the
	// order of ids, so concurrent multi-wallet operations cannot deadlock.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx Transaction, id string, balance, pending, available decimal.Decimal, updatedAt time.Time) error
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.WalletStatus, updatedAt time.Time) error
	List(ctx context.Context, tenantID string, limit, offset int) ([]*domain.Wallet, error)
}

// EntryRepository defines data access for the append-only ledger log.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	// GetByIdempotencyKey returns domain.ErrEntryNotFound when no entry has
	// been written under the key.
	GetByIdempotencyKey(ctx context.Context, tx Transaction, key string) (*domain.Entry, error)
	ListByHold(ctx context.Context, tx Transaction, walletID, holdID string) ([]*domain.Entry, error)
	ListByWallet(ctx context.Context, walletID string, filter domain.EntryFilter) ([]*domain.Entry, error)
	// ListForReplay returns every completed entry for the wallet in creation
	// order, for balance recalculation.
	ListForReplay(ctx context.Context, tx Transaction, walletID string) ([]*domain.Entry, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when the store reports a transient conflict
// (deadlock, serialization failure).
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations for read paths.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles transport-level idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
