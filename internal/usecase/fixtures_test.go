package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
	"github.com/venduo/walletledger/internal/usecase/mocks"
)

// fixture wires every use case against the stateful in-memory mocks so
// multi-step scenarios observe each other's writes.
type fixture struct {
	walletRepo *mocks.MockWalletRepository
	entryRepo  *mocks.MockEntryRepository
	txMgr      *mocks.MockTransactionManager
	idGen      *mocks.MockIDGenerator
	cache      *mocks.MockCache
	retrier    *mocks.MockRetrier

	entries   *usecase.EntryUseCase
	transfers *usecase.TransferUseCase
	holds     *usecase.HoldUseCase
	reconcile *usecase.ReconcileUseCase
	wallets   *usecase.WalletUseCase
	ledger    *usecase.LedgerUseCase
}

func newFixture() *fixture {
	f := &fixture{
		walletRepo: mocks.NewMockWalletRepository(),
		entryRepo:  mocks.NewMockEntryRepository(),
		txMgr:      mocks.NewMockTransactionManager(),
		idGen:      mocks.NewMockIDGenerator(),
		cache:      mocks.NewMockCache(),
		retrier:    mocks.NewMockRetrier(),
	}

	processor := usecase.NewEntryProcessor(f.walletRepo, f.entryRepo, f.idGen)

	f.entries = usecase.NewEntryUseCase(f.txMgr, f.walletRepo, processor, f.retrier, f.cache, nil)
	f.transfers = usecase.NewTransferUseCase(f.txMgr, f.walletRepo, f.entryRepo, processor, f.retrier, f.cache, nil)
	f.holds = usecase.NewHoldUseCase(f.txMgr, f.walletRepo, f.entryRepo, processor, f.retrier, f.cache, nil)
	f.reconcile = usecase.NewReconcileUseCase(f.txMgr, f.walletRepo, f.entryRepo, f.retrier, f.cache, nil)
	f.wallets = usecase.NewWalletUseCase(f.txMgr, f.walletRepo, f.idGen, f.cache, nil)
	f.ledger = usecase.NewLedgerUseCase(f.walletRepo, f.entryRepo)

	return f
}

// seedWallet inserts an active wallet with the given settled balance and no
// open holds.
func (f *fixture) seedWallet(t *testing.T, id string, balance int64) *domain.Wallet {
	t.Helper()

	owner := "owner-" + id
	w := &domain.Wallet{
		ID:               id,
		TenantID:         "tenant-1",
		Type:             domain.WalletTypeCustomer,
		OwnerRef:         &owner,
		Currency:         "USD",
		Status:           domain.WalletStatusActive,
		Balance:          decimal.NewFromInt(balance),
		PendingBalance:   decimal.Zero,
		AvailableBalance: decimal.NewFromInt(balance),
		Version:          1,
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if err := f.walletRepo.Create(context.Background(), w); err != nil {
		t.Fatalf("seed wallet %s: %v", id, err)
	}

	// Seed the log so replay agrees with the cached starting balance.
	if balance != 0 {
		err := f.entryRepo.Create(context.Background(), nil, &domain.Entry{
			ID:             "seed-" + id,
			WalletID:       id,
			Type:           domain.EntryTypeCreditAdjustment,
			Amount:         decimal.NewFromInt(balance),
			Currency:       "USD",
			Status:         domain.EntryStatusCompleted,
			IdempotencyKey: "seed_" + id,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed entry for %s: %v", id, err)
		}
	}

	return w
}

func (f *fixture) wallet(t *testing.T, id string) *domain.Wallet {
	t.Helper()

	w, err := f.walletRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get wallet %s: %v", id, err)
	}

	return w
}

func assertBalance(t *testing.T, w *domain.Wallet, balance, pending, available int64) {
	t.Helper()

	if !w.Balance.Equal(decimal.NewFromInt(balance)) {
		t.Errorf("balance = %s, want %d", w.Balance, balance)
	}
	if !w.PendingBalance.Equal(decimal.NewFromInt(pending)) {
		t.Errorf("pending balance = %s, want %d", w.PendingBalance, pending)
	}
	if !w.AvailableBalance.Equal(decimal.NewFromInt(available)) {
		t.Errorf("available balance = %s, want %d", w.AvailableBalance, available)
	}
	if !w.AvailableBalance.Equal(w.Balance.Sub(w.PendingBalance)) {
		t.Errorf("available %s != balance %s - pending %s", w.AvailableBalance, w.Balance, w.PendingBalance)
	}
}
