package domain_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
)

func newWallet(balance, pending int64) *domain.Wallet {
	w := &domain.Wallet{
		ID:             "wal-1",
		TenantID:       "ten-1",
		Type:           domain.WalletTypeCustomer,
		Currency:       "USD",
		Status:         domain.WalletStatusActive,
		Balance:        decimal.NewFromInt(balance),
		PendingBalance: decimal.NewFromInt(pending),
	}
	w.AvailableBalance = w.Balance.Sub(w.PendingBalance)

	return w
}

func TestWallet_ValidateEntry(t *testing.T) {
	tests := []struct {
		name      string
		wallet    *domain.Wallet
		entryType domain.EntryType
		amount    int64
		wantErr   error
	}{
		{"credit always allowed", newWallet(0, 0), domain.EntryTypeCreditPayment, 500, nil},
		{"debit within balance", newWallet(1500, 0), domain.EntryTypeDebitPayout, 1500, nil},
		{"debit exceeding balance", newWallet(1500, 0), domain.EntryTypeDebitPayout, 2000, domain.ErrInsufficientBalance},
		{"debit ignores pending", newWallet(1500, 300), domain.EntryTypeDebitFee, 1400, nil},
		{"hold within available", newWallet(1500, 0), domain.EntryTypeHoldCreated, 1500, nil},
		{"hold exceeding available", newWallet(1500, 300), domain.EntryTypeHoldCreated, 1300, domain.ErrInsufficientAvailableBalance},
		{"capture within pending", newWallet(1500, 300), domain.EntryTypeHoldCaptured, 300, nil},
		{"capture exceeding pending", newWallet(1500, 300), domain.EntryTypeHoldCaptured, 400, domain.ErrInsufficientPendingBalance},
		{"release exceeding pending", newWallet(1500, 300), domain.EntryTypeHoldReleased, 400, domain.ErrInsufficientPendingBalance},
		{"zero amount rejected", newWallet(1500, 0), domain.EntryTypeCreditPayment, 0, domain.ErrInvalidAmount},
		{"negative amount rejected", newWallet(1500, 0), domain.EntryTypeCreditPayment, -5, domain.ErrInvalidAmount},
		{"unknown type rejected", newWallet(1500, 0), domain.EntryType("BOGUS"), 5, domain.ErrInvalidEntryType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wallet.ValidateEntry(tt.entryType, decimal.NewFromInt(tt.amount))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWallet_ApplyEntry(t *testing.T) {
	tests := []struct {
		name          string
		startPending  int64
		entryType     domain.EntryType
		amount        int64
		wantBalance   int64
		wantPending   int64
		wantAvailable int64
	}{
		{"credit increases balance", 0, domain.EntryTypeCreditPayment, 500, 2000, 0, 2000},
		{"debit decreases balance", 0, domain.EntryTypeDebitPayout, 400, 1100, 0, 1100},
		{"hold increases pending", 0, domain.EntryTypeHoldCreated, 300, 1500, 300, 1200},
		{"capture decreases both", 300, domain.EntryTypeHoldCaptured, 300, 1200, 0, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWallet(1500, tt.startPending)
			w.ApplyEntry(tt.entryType, decimal.NewFromInt(tt.amount))

			if !w.Balance.Equal(decimal.NewFromInt(tt.wantBalance)) {
				t.Errorf("balance: expected %d, got %s", tt.wantBalance, w.Balance)
			}
			if !w.PendingBalance.Equal(decimal.NewFromInt(tt.wantPending)) {
				t.Errorf("pending: expected %d, got %s", tt.wantPending, w.PendingBalance)
			}
			if !w.AvailableBalance.Equal(decimal.NewFromInt(tt.wantAvailable)) {
				t.Errorf("available: expected %d, got %s", tt.wantAvailable, w.AvailableBalance)
			}
		})
	}
}

func TestWallet_HoldThenRelease(t *testing.T) {
	w := newWallet(1500, 0)

	w.ApplyEntry(domain.EntryTypeHoldCreated, decimal.NewFromInt(300))
	if !w.AvailableBalance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected available 1200 after hold, got %s", w.AvailableBalance)
	}

	w.ApplyEntry(domain.EntryTypeHoldReleased, decimal.NewFromInt(300))
	if !w.PendingBalance.IsZero() {
		t.Errorf("expected pending 0 after release, got %s", w.PendingBalance)
	}
	if !w.AvailableBalance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("expected available 1500 after release, got %s", w.AvailableBalance)
	}
}

func TestWallet_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.WalletStatus
		to   domain.WalletStatus
		want bool
	}{
		{domain.WalletStatusActive, domain.WalletStatusSuspended, true},
		{domain.WalletStatusActive, domain.WalletStatusClosed, true},
		{domain.WalletStatusSuspended, domain.WalletStatusActive, true},
		{domain.WalletStatusClosed, domain.WalletStatusActive, false},
		{domain.WalletStatusClosed, domain.WalletStatusSuspended, false},
		{domain.WalletStatusActive, domain.WalletStatusActive, false},
		{domain.WalletStatusActive, domain.WalletStatus("bogus"), false},
	}

	for _, tt := range tests {
		w := &domain.Wallet{Status: tt.from}
		if got := w.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}
