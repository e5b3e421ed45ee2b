package dto

import (
	"github.com/shopspring/decimal"

	"github.com/venduo/walletledger/internal/usecase"
)

// CreateHoldRequest reserves funds on a wallet under a caller-chosen hold ID.
type CreateHoldRequest struct {
	HoldID        string          `json:"hold_id"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Metadata      map[string]any  `json:"metadata,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input for the given wallet.
func (r *CreateHoldRequest) ToUseCaseInput(walletID string) usecase.HoldInput {
	return usecase.HoldInput{
		WalletID: walletID,
		HoldID:   r.HoldID,
		Amount:   r.Amount,
		Reference: usecase.EntryReference{
			ReferenceType: r.ReferenceType,
			ReferenceID:   r.ReferenceID,
			Description:   r.Description,
			Metadata:      r.Metadata,
			CreatedBy:     r.CreatedBy,
		},
	}
}

// SettleHoldRequest releases or captures a hold. A zero or omitted amount
// means the full held amount.
type SettleHoldRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// ToUseCaseInput converts to use case input for the given wallet and hold.
func (r *SettleHoldRequest) ToUseCaseInput(walletID, holdID string) usecase.HoldInput {
	return usecase.HoldInput{
		WalletID: walletID,
		HoldID:   holdID,
		Amount:   r.Amount,
		Reference: usecase.EntryReference{
			CreatedBy: r.CreatedBy,
		},
	}
}
