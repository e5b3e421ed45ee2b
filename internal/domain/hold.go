package domain

import "github.com/shopspring/decimal"

// A hold is not a stored entity. It is the logical grouping, by hold ID, of
// exactly one HOLD_CREATED entry and at most one terminal entry
// (HOLD_RELEASED or HOLD_CAPTURED) on the same wallet. Idempotency keys for
// the three phases are derived from the hold ID so retries collapse onto the
// same ledger rows.

// HoldCreateKey returns the idempotency key for the create phase.
func HoldCreateKey(holdID string) string { return "hold_create_" + holdID }

// HoldReleaseKey returns the idempotency key for the release phase.
func HoldReleaseKey(holdID string) string { return "hold_release_" + holdID }

// HoldCaptureKey returns the idempotency key for the capture phase.
func HoldCaptureKey(holdID string) string { return "hold_capture_" + holdID }

// HoldState summarizes a hold's entries as read from the ledger log.
type HoldState struct {
	HoldID     string
	WalletID   string
	HeldAmount decimal.Decimal
	Created    *Entry
	Terminal   *Entry
}

// NewHoldState folds a hold's ledger entries into a state snapshot.
// Entries must all share the same hold ID and wallet.
func NewHoldState(holdID, walletID string, entries []*Entry) *HoldState {
	st := &HoldState{HoldID: holdID, WalletID: walletID, HeldAmount: decimal.Zero}

	for _, e := range entries {
		switch e.Type {
		case EntryTypeHoldCreated:
			st.Created = e
			st.HeldAmount = e.Amount
		case EntryTypeHoldReleased, EntryTypeHoldCaptured:
			st.Terminal = e
		}
	}

	return st
}

// Settled reports whether a terminal transition was already recorded.
func (s *HoldState) Settled() bool {
	return s.Terminal != nil
}
