package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database
	// transaction, so a stuck lock cannot block a wallet indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// WalletCacheTTL bounds how stale a cached wallet read may be.
	WalletCacheTTL = 5 * time.Second

	// SystemActor is recorded as created_by when the caller supplies none.
	SystemActor = "system"
)

func walletCacheKey(walletID string) string {
	return "wallet:" + walletID
}
