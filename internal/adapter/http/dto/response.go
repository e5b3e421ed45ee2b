package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

// WalletResponse represents a wallet in API responses.
type WalletResponse struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenant_id"`
	Type             string          `json:"type"`
	OwnerRef         *string         `json:"owner_ref,omitempty"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	Balance          decimal.Decimal `json:"balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Version          int64           `json:"version"`
	Metadata         map[string]any  `json:"metadata,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// WalletFromDomain converts a domain wallet to a response.
func WalletFromDomain(w *domain.Wallet) *WalletResponse {
	return &WalletResponse{
		ID:               w.ID,
		TenantID:         w.TenantID,
		Type:             string(w.Type),
		OwnerRef:         w.OwnerRef,
		Currency:         w.Currency,
		Status:           string(w.Status),
		Balance:          w.Balance,
		PendingBalance:   w.PendingBalance,
		AvailableBalance: w.AvailableBalance,
		Version:          w.Version,
		Metadata:         w.Metadata,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// WalletsFromDomain converts domain wallets to responses.
func WalletsFromDomain(wallets []*domain.Wallet) []*WalletResponse {
	result := make([]*WalletResponse, len(wallets))
	for i, w := range wallets {
		result[i] = WalletFromDomain(w)
	}
	return result
}

// ListWalletsResponse wraps a wallet listing.
type ListWalletsResponse struct {
	Wallets []*WalletResponse `json:"wallets"`
	Total   int64             `json:"total"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID                    string          `json:"id"`
	WalletID              string          `json:"wallet_id"`
	EntryType             string          `json:"entry_type"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	BalanceAfter          decimal.Decimal `json:"balance_after"`
	PendingBalanceAfter   decimal.Decimal `json:"pending_balance_after"`
	AvailableBalanceAfter decimal.Decimal `json:"available_balance_after"`
	Status                string          `json:"status"`
	ReferenceType         string          `json:"reference_type,omitempty"`
	ReferenceID           string          `json:"reference_id,omitempty"`
	CounterpartyWalletID  string          `json:"counterparty_wallet_id,omitempty"`
	HoldID                string          `json:"hold_id,omitempty"`
	IdempotencyKey        string          `json:"idempotency_key"`
	Description           string          `json:"description,omitempty"`
	Metadata              map[string]any  `json:"metadata,omitempty"`
	CreatedBy             string          `json:"created_by"`
	CreatedAt             time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:                    e.ID,
		WalletID:              e.WalletID,
		EntryType:             string(e.Type),
		Amount:                e.Amount,
		Currency:              e.Currency,
		BalanceAfter:          e.BalanceAfter,
		PendingBalanceAfter:   e.PendingBalanceAfter,
		AvailableBalanceAfter: e.AvailableBalanceAfter,
		Status:                string(e.Status),
		ReferenceType:         e.ReferenceType,
		ReferenceID:           e.ReferenceID,
		CounterpartyWalletID:  e.CounterpartyWalletID,
		HoldID:                e.HoldID,
		IdempotencyKey:        e.IdempotencyKey,
		Description:           e.Description,
		Metadata:              e.Metadata,
		CreatedBy:             e.CreatedBy,
		CreatedAt:             e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ListEntriesResponse wraps an entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// ApplyEntryResponse is the outcome of a credit, debit or hold operation.
type ApplyEntryResponse struct {
	Entry       *EntryResponse  `json:"entry"`
	Wallet      *WalletResponse `json:"wallet"`
	IsDuplicate bool            `json:"is_duplicate"`
}

// ApplyEntryFromResult converts a use case result to a response.
func ApplyEntryFromResult(res *usecase.ApplyEntryResult) *ApplyEntryResponse {
	return &ApplyEntryResponse{
		Entry:       EntryFromDomain(res.Entry),
		Wallet:      WalletFromDomain(res.Wallet),
		IsDuplicate: res.Duplicate,
	}
}

// TransferResponse is the outcome of a transfer. CreditEntry is null on a
// duplicate replay.
type TransferResponse struct {
	DebitEntry  *EntryResponse  `json:"debit_entry"`
	CreditEntry *EntryResponse  `json:"credit_entry,omitempty"`
	FromWallet  *WalletResponse `json:"from_wallet"`
	ToWallet    *WalletResponse `json:"to_wallet"`
	IsDuplicate bool            `json:"is_duplicate"`
}

// TransferFromResult converts a use case result to a response.
func TransferFromResult(res *usecase.TransferResult) *TransferResponse {
	resp := &TransferResponse{
		DebitEntry:  EntryFromDomain(res.DebitEntry),
		FromWallet:  WalletFromDomain(res.FromWallet),
		ToWallet:    WalletFromDomain(res.ToWallet),
		IsDuplicate: res.Duplicate,
	}

	if res.CreditEntry != nil {
		resp.CreditEntry = EntryFromDomain(res.CreditEntry)
	}

	return resp
}

// RecalculateResponse reports a balance recalculation.
type RecalculateResponse struct {
	WalletID         string          `json:"wallet_id"`
	Balance          decimal.Decimal `json:"balance"`
	PendingBalance   decimal.Decimal `json:"pending_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	EntryCount       int             `json:"entry_count"`
	Drifted          bool            `json:"drifted"`
	CheckedAt        time.Time       `json:"checked_at"`
}

// RecalculateFromResult converts a use case result to a response.
func RecalculateFromResult(res *usecase.RecalculateResult) *RecalculateResponse {
	return &RecalculateResponse{
		WalletID:         res.WalletID,
		Balance:          res.Balance,
		PendingBalance:   res.PendingBalance,
		AvailableBalance: res.AvailableBalance,
		EntryCount:       res.EntryCount,
		Drifted:          res.Drifted,
		CheckedAt:        res.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
