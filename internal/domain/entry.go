package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the fixed tagged union of monetary event kinds.
type EntryType string

const (
	EntryTypeCreditPayment    EntryType = "CREDIT_PAYMENT"
	EntryTypeCreditRefund     EntryType = "CREDIT_REFUND"
	EntryTypeCreditTransferIn EntryType = "CREDIT_TRANSFER_IN"
	EntryTypeCreditAdjustment EntryType = "CREDIT_ADJUSTMENT"

	EntryTypeDebitPayout      EntryType = "DEBIT_PAYOUT"
	EntryTypeDebitFee         EntryType = "DEBIT_FEE"
	EntryTypeDebitTransferOut EntryType = "DEBIT_TRANSFER_OUT"
	EntryTypeDebitAdjustment  EntryType = "DEBIT_ADJUSTMENT"

	EntryTypeHoldCreated  EntryType = "HOLD_CREATED"
	EntryTypeHoldReleased EntryType = "HOLD_RELEASED"
	EntryTypeHoldCaptured EntryType = "HOLD_CAPTURED"
)

// IsCredit reports whether the type settles funds into the wallet.
func (t EntryType) IsCredit() bool {
	return strings.HasPrefix(string(t), "CREDIT_")
}

// IsDebit reports whether the type settles funds out of the wallet.
func (t EntryType) IsDebit() bool {
	return strings.HasPrefix(string(t), "DEBIT_")
}

// IsHold reports whether the type belongs to the hold protocol.
func (t EntryType) IsHold() bool {
	switch t {
	case EntryTypeHoldCreated, EntryTypeHoldReleased, EntryTypeHoldCaptured:
		return true
	}
	return false
}

// Valid reports whether the type is a member of the tagged union.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeCreditPayment, EntryTypeCreditRefund, EntryTypeCreditTransferIn, EntryTypeCreditAdjustment,
		EntryTypeDebitPayout, EntryTypeDebitFee, EntryTypeDebitTransferOut, EntryTypeDebitAdjustment,
		EntryTypeHoldCreated, EntryTypeHoldReleased, EntryTypeHoldCaptured:
		return true
	}
	return false
}

// AffectsBalance reports whether the type changes settled balance.
// Summing the signed amounts of these entries reproduces Balance exactly.
func (t EntryType) AffectsBalance() bool {
	return t.IsCredit() || t.IsDebit() || t == EntryTypeHoldCaptured
}

// Signed converts a non-negative operation amount into the stored signed
// amount: negative for debits and hold capture, positive otherwise.
func (t EntryType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t.IsDebit() || t == EntryTypeHoldCaptured {
		return amount.Neg()
	}
	return amount
}

// EntryStatus is the settlement state of a ledger entry.
type EntryStatus string

// EntryStatusCompleted is the only status the engine writes today. The
// column exists so reconciliation can ignore anything a future workflow
// parks in a non-final state.
const EntryStatusCompleted EntryStatus = "completed"

// Entry is one immutable, signed monetary event attributed to a wallet.
// Each entry carries a point-in-time snapshot of the three balance fields
// taken after the entry was applied.
type Entry struct {
	ID                    string
	WalletID              string
	Type                  EntryType
	Amount                decimal.Decimal
	Currency              string
	BalanceAfter          decimal.Decimal
	PendingBalanceAfter   decimal.Decimal
	AvailableBalanceAfter decimal.Decimal
	Status                EntryStatus
	ReferenceType         string
	ReferenceID           string
	CounterpartyWalletID  string
	HoldID                string
	IdempotencyKey        string
	Description           string
	Metadata              map[string]any
	CreatedBy             string
	CreatedAt             time.Time
}

// EntryFilter narrows ledger queries for a wallet.
type EntryFilter struct {
	Type          *EntryType
	ReferenceType string
	ReferenceID   string
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}
