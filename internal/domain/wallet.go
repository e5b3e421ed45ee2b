package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletType identifies who a wallet belongs to within a tenant.
type WalletType string

const (
	WalletTypeCustomer WalletType = "customer"
	WalletTypeVendor   WalletType = "vendor"
	WalletTypePlatform WalletType = "platform"
)

// Valid reports whether the wallet type is one of the known kinds.
func (t WalletType) Valid() bool {
	switch t {
	case WalletTypeCustomer, WalletTypeVendor, WalletTypePlatform:
		return true
	}
	return false
}

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "active"
	WalletStatusSuspended WalletStatus = "suspended"
	WalletStatusClosed    WalletStatus = "closed"
)

// Valid reports whether the status is a known lifecycle state.
func (s WalletStatus) Valid() bool {
	switch s {
	case WalletStatusActive, WalletStatusSuspended, WalletStatusClosed:
		return true
	}
	return false
}

// Wallet is the cached balance projection for one (tenant, ownership) pair.
// The ledger log is the source of truth; Balance, PendingBalance and
// AvailableBalance must always equal a fold over the wallet's entries.
type Wallet struct {
	ID               string
	TenantID         string
	Type             WalletType
	OwnerRef         *string
	Currency         string
	Status           WalletStatus
	Balance          decimal.Decimal
	PendingBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	Version          int64
	Metadata         map[string]any
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the wallet accepts new entries.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// ValidateEntry checks whether an entry of the given type and (non-negative)
// amount can be applied against the current balances.
func (w *Wallet) ValidateEntry(entryType EntryType, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch {
	case entryType.IsCredit():
		return nil
	case entryType.IsDebit():
		if w.Balance.LessThan(amount) {
			return ErrInsufficientBalance
		}
		return nil
	case entryType == EntryTypeHoldCreated:
		if w.AvailableBalance.LessThan(amount) {
			return ErrInsufficientAvailableBalance
		}
		return nil
	case entryType == EntryTypeHoldReleased:
		if w.PendingBalance.LessThan(amount) {
			return ErrInsufficientPendingBalance
		}
		return nil
	case entryType == EntryTypeHoldCaptured:
		if w.PendingBalance.LessThan(amount) {
			return ErrInsufficientPendingBalance
		}
		return nil
	default:
		return ErrInvalidEntryType
	}
}

// ApplyEntry mutates the cached balances for an already-validated entry.
// AvailableBalance is recomputed in every branch; it is never set directly.
func (w *Wallet) ApplyEntry(entryType EntryType, amount decimal.Decimal) {
	switch {
	case entryType.IsCredit():
		w.Balance = w.Balance.Add(amount)
	case entryType.IsDebit():
		w.Balance = w.Balance.Sub(amount)
	case entryType == EntryTypeHoldCreated:
		w.PendingBalance = w.PendingBalance.Add(amount)
	case entryType == EntryTypeHoldReleased:
		w.PendingBalance = w.PendingBalance.Sub(amount)
	case entryType == EntryTypeHoldCaptured:
		w.PendingBalance = w.PendingBalance.Sub(amount)
		w.Balance = w.Balance.Sub(amount)
	}

	w.AvailableBalance = w.Balance.Sub(w.PendingBalance)
}

// CanTransitionTo reports whether the status change is allowed.
// Closed is terminal; suspended wallets may be re-activated.
func (w *Wallet) CanTransitionTo(next WalletStatus) bool {
	if !next.Valid() || w.Status == next {
		return false
	}
	return w.Status != WalletStatusClosed
}
