package integration

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/venduo/walletledger/internal/adapter/repository/postgres"
	redisRepo "github.com/venduo/walletledger/internal/adapter/repository/redis"
	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
	"github.com/venduo/walletledger/tests/testutil"
)

// env wires the full stack against a real database and an in-process redis.
type env struct {
	pool        *pgxpool.Pool
	walletUC    *usecase.WalletUseCase
	entryUC     *usecase.EntryUseCase
	transferUC  *usecase.TransferUseCase
	holdUC      *usecase.HoldUseCase
	reconcileUC *usecase.ReconcileUseCase
	ledgerUC    *usecase.LedgerUseCase
}

func newEnv(t *testing.T, pool *pgxpool.Pool) *env {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	txManager := postgresRepo.NewTxManager(pool)
	walletRepo := postgresRepo.NewWalletRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)

	processor := usecase.NewEntryProcessor(walletRepo, entryRepo, idGen)

	return &env{
		pool:        pool,
		walletUC:    usecase.NewWalletUseCase(txManager, walletRepo, idGen, cache, nil),
		entryUC:     usecase.NewEntryUseCase(txManager, walletRepo, processor, retrier, cache, nil),
		transferUC:  usecase.NewTransferUseCase(txManager, walletRepo, entryRepo, processor, retrier, cache, nil),
		holdUC:      usecase.NewHoldUseCase(txManager, walletRepo, entryRepo, processor, retrier, cache, nil),
		reconcileUC: usecase.NewReconcileUseCase(txManager, walletRepo, entryRepo, retrier, cache, nil),
		ledgerUC:    usecase.NewLedgerUseCase(walletRepo, entryRepo),
	}
}

// createWallet registers a customer wallet for a fresh owner.
func (e *env) createWallet(ctx context.Context, t *testing.T, tenantID string) *domain.Wallet {
	t.Helper()

	owner := "owner-" + testutil.GenerateID()
	wallet, err := e.walletUC.GetOrCreateWallet(ctx, usecase.GetOrCreateWalletInput{
		TenantID: tenantID,
		Type:     domain.WalletTypeCustomer,
		OwnerRef: &owner,
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("failed to create wallet: %v", err)
	}
	return wallet
}

// fundWallet credits an initial balance through the public API.
func (e *env) fundWallet(ctx context.Context, t *testing.T, walletID string, amount int64) {
	t.Helper()

	_, err := e.entryUC.Credit(ctx, usecase.ApplyEntryInput{
		WalletID:       walletID,
		Type:           domain.EntryTypeCreditAdjustment,
		Amount:         decimal.NewFromInt(amount),
		IdempotencyKey: "seed_" + testutil.GenerateID(),
	})
	if err != nil {
		t.Fatalf("failed to fund wallet: %v", err)
	}
}

func (e *env) mustGetWallet(ctx context.Context, t *testing.T, id string) *domain.Wallet {
	t.Helper()

	wallet, err := e.walletUC.GetWallet(ctx, id)
	if err != nil {
		t.Fatalf("failed to get wallet %s: %v", id, err)
	}
	return wallet
}
