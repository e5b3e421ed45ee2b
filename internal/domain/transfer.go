package domain

// A transfer is two entries written in one transaction: a DEBIT_TRANSFER_OUT
// on the source wallet and a CREDIT_TRANSFER_IN on the destination, each
// carrying the other wallet as counterparty. Sub-keys are derived from the
// caller's idempotency key; the debit sub-key alone decides duplicate
// detection because the two legs are never partially committed.

// TransferDebitKey returns the idempotency key for the debit leg.
func TransferDebitKey(idempotencyKey string) string { return idempotencyKey + "_debit" }

// TransferCreditKey returns the idempotency key for the credit leg.
func TransferCreditKey(idempotencyKey string) string { return idempotencyKey + "_credit" }
