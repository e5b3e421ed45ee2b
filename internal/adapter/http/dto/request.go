package dto

import (
	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/domain"
	"github.com/venduo/walletledger/internal/usecase"
)

// GetOrCreateWalletRequest identifies a wallet by ownership; the wallet is
// created lazily on first use.
type GetOrCreateWalletRequest struct {
	TenantID string         `json:"tenant_id"`
	Type     string         `json:"type"`
	OwnerRef *string        `json:"owner_ref,omitempty"`
	Currency string         `json:"currency"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *GetOrCreateWalletRequest) ToUseCaseInput() usecase.GetOrCreateWalletInput {
	return usecase.GetOrCreateWalletInput{
		TenantID: r.TenantID,
		Type:     domain.WalletType(r.Type),
		OwnerRef: r.OwnerRef,
		Currency: r.Currency,
		Metadata: r.Metadata,
	}
}

// UpdateWalletStatusRequest transitions a wallet's lifecycle state.
type UpdateWalletStatusRequest struct {
	Status string `json:"status"`
}

// ApplyEntryRequest represents a request to credit or debit a wallet.
type ApplyEntryRequest struct {
	EntryType      string          `json:"entry_type"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input for the given wallet.
func (r *ApplyEntryRequest) ToUseCaseInput(walletID string) usecase.ApplyEntryInput {
	return usecase.ApplyEntryInput{
		WalletID:       walletID,
		Type:           domain.EntryType(r.EntryType),
		Amount:         r.Amount,
		IdempotencyKey: r.IdempotencyKey,
		Reference: usecase.EntryReference{
			ReferenceType: r.ReferenceType,
			ReferenceID:   r.ReferenceID,
			Description:   r.Description,
			Metadata:      r.Metadata,
			CreatedBy:     r.CreatedBy,
		},
	}
}

// TransferRequest represents a request to move funds between wallets.
type TransferRequest struct {
	FromWalletID   string          `json:"from_wallet_id"`
	ToWalletID     string          `json:"to_wallet_id"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey string          `json:"idempotency_key"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	ReferenceID    string          `json:"reference_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		FromWalletID:   r.FromWalletID,
		ToWalletID:     r.ToWalletID,
		Amount:         r.Amount,
		IdempotencyKey: r.IdempotencyKey,
		Reference: usecase.EntryReference{
			ReferenceType: r.ReferenceType,
			ReferenceID:   r.ReferenceID,
			Description:   r.Description,
			Metadata:      r.Metadata,
			CreatedBy:     r.CreatedBy,
		},
	}
}
