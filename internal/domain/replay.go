package domain

import "github.com/shopspring/decimal"

// ReplayResult holds the balances produced by folding a wallet's full entry
// log from zero.
type ReplayResult struct {
	Balance          decimal.Decimal
	PendingBalance   decimal.Decimal
	AvailableBalance decimal.Decimal
	EntryCount       int
}

// ReplayEntries recomputes a wallet's balances from its completed entries in
// creation order. Settled balance is the sum of signed amounts over
// balance-affecting entries. Pending balance tracks open holds: a terminal
// entry removes the full held amount, so after a partial capture the
// un-captured remainder counts as available here. Apply time only subtracts
// the captured amount from pending; recalculation is what returns the rest.
func ReplayEntries(entries []*Entry) ReplayResult {
	balance := decimal.Zero
	pending := decimal.Zero
	held := make(map[string]decimal.Decimal)

	for _, e := range entries {
		if e.Status != EntryStatusCompleted {
			continue
		}

		if e.Type.AffectsBalance() {
			balance = balance.Add(e.Amount)
		}

		switch e.Type {
		case EntryTypeHoldCreated:
			pending = pending.Add(e.Amount)
			held[e.HoldID] = e.Amount
		case EntryTypeHoldReleased, EntryTypeHoldCaptured:
			if amt, ok := held[e.HoldID]; ok {
				pending = pending.Sub(amt)
				delete(held, e.HoldID)
			}
		}
	}

	return ReplayResult{
		Balance:          balance,
		PendingBalance:   pending,
		AvailableBalance: balance.Sub(pending),
		EntryCount:       len(entries),
	}
}
