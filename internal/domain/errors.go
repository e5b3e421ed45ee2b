package domain

import "errors"

var (
	// Wallet errors
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrWalletInactive    = errors.New("wallet is not active")
	ErrWalletExists      = errors.New("wallet already exists")
	ErrWalletClosed      = errors.New("wallet is closed")
	ErrInvalidWalletType = errors.New("invalid wallet type")

	// Balance errors
	ErrInsufficientBalance          = errors.New("insufficient balance")
	ErrInsufficientAvailableBalance = errors.New("insufficient available balance")
	ErrInsufficientPendingBalance   = errors.New("insufficient pending balance")

	// Entry errors
	ErrEntryNotFound         = errors.New("entry not found")
	ErrInvalidEntryType      = errors.New("invalid entry type")
	ErrEntryTypeNotAllowed   = errors.New("entry type not allowed for this operation")
	ErrMissingIdempotencyKey = errors.New("idempotency key is required")
	ErrDuplicateEntry        = errors.New("entry with this idempotency key already exists")

	// Transfer errors
	ErrSameWallet       = errors.New("cannot transfer to the same wallet")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCurrencyMismatch = errors.New("wallet currencies do not match")

	// Hold errors
	ErrHoldNotFound       = errors.New("hold not found")
	ErrHoldAlreadySettled = errors.New("hold has already been released or captured")
)
