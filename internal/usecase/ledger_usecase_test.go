package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

func TestLedgerUseCase_GetLedgerEntries(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 0)

	for i, key := range []string{"pay-1", "pay-2", "pay-3"} {
		if _, err := f.entries.Credit(context.Background(), usecase.ApplyEntryInput{
			WalletID:       "wal-1",
			Type:           domain.EntryTypeCreditPayment,
			Amount:         decimal.NewFromInt(int64(100 * (i + 1))),
			IdempotencyKey: key,
			Reference: usecase.EntryReference{
				ReferenceType: "ORDER",
				ReferenceID:   "order-1",
			},
		}); err != nil {
			t.Fatalf("credit %s: %v", key, err)
		}
	}

	entries, err := f.ledger.GetLedgerEntries(context.Background(), "wal-1", domain.EntryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entry count = %d, want 3", len(entries))
	}

	// Newest first.
	if entries[0].IdempotencyKey != "pay-3" {
		t.Errorf("first entry key = %s, want pay-3", entries[0].IdempotencyKey)
	}
}

func TestLedgerUseCase_GetLedgerEntries_Filters(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 1000)

	if _, err := f.entries.Credit(context.Background(), usecase.ApplyEntryInput{
		WalletID:       "wal-1",
		Type:           domain.EntryTypeCreditPayment,
		Amount:         decimal.NewFromInt(100),
		IdempotencyKey: "pay-1",
		Reference:      usecase.EntryReference{ReferenceType: "ORDER", ReferenceID: "order-1"},
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if _, err := f.entries.Debit(context.Background(), usecase.ApplyEntryInput{
		WalletID:       "wal-1",
		Type:           domain.EntryTypeDebitFee,
		Amount:         decimal.NewFromInt(30),
		IdempotencyKey: "fee-1",
		Reference:      usecase.EntryReference{ReferenceType: "FEE", ReferenceID: "fee-rec-1"},
	}); err != nil {
		t.Fatalf("debit: %v", err)
	}

	feeType := domain.EntryTypeDebitFee
	entries, err := f.ledger.GetLedgerEntries(context.Background(), "wal-1", domain.EntryFilter{Type: &feeType})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(entries) != 1 || entries[0].IdempotencyKey != "fee-1" {
		t.Errorf("type filter returned %d entries", len(entries))
	}

	entries, err = f.ledger.GetLedgerEntries(context.Background(), "wal-1", domain.EntryFilter{ReferenceType: "ORDER"})
	if err != nil {
		t.Fatalf("list by reference: %v", err)
	}
	if len(entries) != 1 || entries[0].IdempotencyKey != "pay-1" {
		t.Errorf("reference filter returned %d entries", len(entries))
	}
}

func TestLedgerUseCase_GetLedgerEntries_Pagination(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 0)

	for _, key := range []string{"a", "b", "c", "d"} {
		if _, err := f.entries.Credit(context.Background(), usecase.ApplyEntryInput{
			WalletID:       "wal-1",
			Type:           domain.EntryTypeCreditPayment,
			Amount:         decimal.NewFromInt(10),
			IdempotencyKey: key,
		}); err != nil {
			t.Fatalf("credit %s: %v", key, err)
		}
	}

	page, err := f.ledger.GetLedgerEntries(context.Background(), "wal-1", domain.EntryFilter{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	if page[0].IdempotencyKey != "c" || page[1].IdempotencyKey != "b" {
		t.Errorf("page = [%s %s], want [c b]", page[0].IdempotencyKey, page[1].IdempotencyKey)
	}
}

func TestLedgerUseCase_GetLedgerEntries_WalletNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.GetLedgerEntries(context.Background(), "wal-missing", domain.EntryFilter{})
	if !errors.Is(err, domain.ErrWalletNotFound) {
		t.Fatalf("err = %v, want ErrWalletNotFound", err)
	}
}

func TestLedgerUseCase_GetEntry(t *testing.T) {
	f := newFixture()
	f.seedWallet(t, "wal-1", 0)

	res, err := f.entries.Credit(context.Background(), usecase.ApplyEntryInput{
		WalletID:       "wal-1",
		Type:           domain.EntryTypeCreditPayment,
		Amount:         decimal.NewFromInt(100),
		IdempotencyKey: "pay-1",
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}

	got, err := f.ledger.GetEntry(context.Background(), res.Entry.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if got.ID != res.Entry.ID {
		t.Errorf("entry id = %s, want %s", got.ID, res.Entry.ID)
	}

	if _, err := f.ledger.GetEntry(context.Background(), "entry-missing"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("missing entry: err = %v, want ErrEntryNotFound", err)
	}
}
