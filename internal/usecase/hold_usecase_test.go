package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

func TestHoldUseCase_CreateAndRelease(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1500)

	created, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("create hold: %v", err)
	}

	// Held funds leave available but not settled balance.
	assertBalance(t, f.wallet(t, "wal-1"), 1500, 300, 1200)

	if created.Entry.IdempotencyKey != "hold_create_hold-1" {
		t.Errorf("create key = %s", created.Entry.IdempotencyKey)
	}
	if created.Entry.HoldID != "hold-1" {
		t.Errorf("hold id = %s, want hold-1", created.Entry.HoldID)
	}

	released, err := f.holds.ReleaseHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
	})
	if err != nil {
		t.Fatalf("release hold: %v", err)
	}

	assertBalance(t, f.wallet(t, "wal-1"), 1500, 0, 1500)

	if !released.Entry.Amount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("release amount = %s, want 300 (defaults to held amount)", released.Entry.Amount)
	}
	if released.Entry.IdempotencyKey != "hold_release_hold-1" {
		t.Errorf("release key = %s", released.Entry.IdempotencyKey)
	}
}

func TestHoldUseCase_CreateAndCapture(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1500)

	if _, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("create hold: %v", err)
	}

	captured, err := f.holds.CaptureHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("capture hold: %v", err)
	}

	assertBalance(t, f.wallet(t, "wal-1"), 1200, 0, 1200)

	if !captured.Entry.Amount.Equal(decimal.NewFromInt(-300)) {
		t.Errorf("capture amount = %s, want -300", captured.Entry.Amount)
	}
}

func TestHoldUseCase_CaptureEquivalentToDebit(t *testing.T) {
	held := newFixture()
	held.seedWallet(t, "wal-1", 1500)

	if _, err := held.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("create hold: %v", err)
	}
	if _, err := held.holds.CaptureHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("capture hold: %v", err)
	}

	direct := newFixture()
	direct.seedWallet(t, "wal-1", 1500)

	if _, err := direct.entries.Debit(context.Background(), usecase.ApplyEntryInput{
		WalletID:       "wal-1",
		Type:           domain.EntryTypeDebitPayout,
		Amount:         decimal.NewFromInt(300),
		IdempotencyKey: "payout-1",
	}); err != nil {
		t.Fatalf("debit: %v", err)
	}

	hw := held.wallet(t, "wal-1")
	dw := direct.wallet(t, "wal-1")

	if !hw.Balance.Equal(dw.Balance) || !hw.PendingBalance.Equal(dw.PendingBalance) {
		t.Errorf("hold+capture (%s, %s) differs from direct debit (%s, %s)",
			hw.Balance, hw.PendingBalance, dw.Balance, dw.PendingBalance)
	}
}

func TestHoldUseCase_InsufficientAvailable(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 500)

	if _, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(400),
	}); err != nil {
		t.Fatalf("first hold: %v", err)
	}

	_, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-2",
		Amount:   decimal.NewFromInt(200),
	})
	if !errors.Is(err, domain.ErrInsufficientAvailableBalance) {
		t.Fatalf("err = %v, want ErrInsufficientAvailableBalance", err)
	}

	assertBalance(t, f.wallet(t, "wal-1"), 500, 400, 100)
}

func TestHoldUseCase_IdempotentRetries(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1500)

	input := usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}

	if _, err := f.holds.CreateHold(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}

	retry, err := f.holds.CreateHold(context.Background(), input)
	if err != nil {
		t.Fatalf("create retry: %v", err)
	}
	if !retry.Duplicate {
		t.Error("create retry not reported duplicate")
	}

	assertBalance(t, f.wallet(t, "wal-1"), 1500, 300, 1200)

	if _, err := f.holds.ReleaseHold(context.Background(), input); err != nil {
		t.Fatalf("release: %v", err)
	}

	retry, err = f.holds.ReleaseHold(context.Background(), input)
	if err != nil {
		t.Fatalf("release retry: %v", err)
	}
	if !retry.Duplicate {
		t.Error("release retry not reported duplicate")
	}

	assertBalance(t, f.wallet(t, "wal-1"), 1500, 0, 1500)
}

func TestHoldUseCase_SecondTerminalRejected(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1500)

	input := usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}

	if _, err := f.holds.CreateHold(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.holds.ReleaseHold(context.Background(), input); err != nil {
		t.Fatalf("release: %v", err)
	}

	_, err := f.holds.CaptureHold(context.Background(), input)
	if !errors.Is(err, domain.ErrHoldAlreadySettled) {
		t.Fatalf("capture after release: err = %v, want ErrHoldAlreadySettled", err)
	}

	assertBalance(t, f.wallet(t, "wal-1"), 1500, 0, 1500)
}

func TestHoldUseCase_PartialCapture(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1000)

	if _, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	captured, err := f.holds.CaptureHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("partial capture: %v", err)
	}

	if !captured.Entry.Amount.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("capture amount = %s, want -200", captured.Entry.Amount)
	}

	// Only the captured portion is reflected immediately; reconciliation
	// returns the remainder against the originally held amount.
	assertBalance(t, f.wallet(t, "wal-1"), 800, 100, 700)

	res, err := f.reconcile.Recalculate(context.Background(), "wal-1")
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if !res.Drifted {
		t.Error("partial capture remainder not reported as drift")
	}

	assertBalance(t, f.wallet(t, "wal-1"), 800, 0, 800)
}

func TestHoldUseCase_CaptureExceedsHeld(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1000)

	if _, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := f.holds.CaptureHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-1",
		Amount:   decimal.NewFromInt(400),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestHoldUseCase_UnknownHold(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1000)

	_, err := f.holds.ReleaseHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-missing",
	})
	if !errors.Is(err, domain.ErrHoldNotFound) {
		t.Errorf("release: err = %v, want ErrHoldNotFound", err)
	}

	_, err = f.holds.CaptureHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		HoldID:   "hold-missing",
	})
	if !errors.Is(err, domain.ErrHoldNotFound) {
		t.Errorf("capture: err = %v, want ErrHoldNotFound", err)
	}
}

func TestHoldUseCase_MissingHoldID(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1000)

	_, err := f.holds.CreateHold(context.Background(), usecase.HoldInput{
		WalletID: "wal-1",
		Amount:   decimal.NewFromInt(100),
	})
	if !errors.Is(err, usecase.ErrMissingHoldID) {
		t.Fatalf("err = %v, want ErrMissingHoldID", err)
	}
}
