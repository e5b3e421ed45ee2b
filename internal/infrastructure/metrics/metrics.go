package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ledger engine.
type Metrics struct {
	// Entry metrics
	EntriesApplied   *prometheus.CounterVec
	EntryErrors      *prometheus.CounterVec
	DuplicateEntries prometheus.Counter
	EntryDuration    prometheus.Histogram

	// Wallet metrics
	WalletsCreated prometheus.Counter

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferAmount   prometheus.Histogram

	// Hold metrics
	HoldsCreated  prometheus.Counter
	HoldsReleased prometheus.Counter
	HoldsCaptured prometheus.Counter

	// Reconciliation metrics
	Recalculations prometheus.Counter
	DriftDetected  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_entries_applied_total",
				Help: "Total number of ledger entries applied by type",
			},
			[]string{"entry_type"},
		),
		EntryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_entry_errors_total",
				Help: "Total number of rejected entries by error kind",
			},
			[]string{"error_type"},
		),
		DuplicateEntries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_duplicate_entries_total",
			Help: "Total number of idempotency-key replays",
		}),
		EntryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletledger_entry_duration_seconds",
			Help:    "Duration of entry application",
			Buckets: prometheus.DefBuckets,
		}),

		WalletsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_wallets_created_total",
			Help: "Total number of wallets created",
		}),

		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		HoldsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_holds_created_total",
			Help: "Total number of holds created",
		}),
		HoldsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_holds_released_total",
			Help: "Total number of holds released",
		}),
		HoldsCaptured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_holds_captured_total",
			Help: "Total number of holds captured",
		}),

		Recalculations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_recalculations_total",
			Help: "Total number of balance recalculations",
		}),
		DriftDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletledger_drift_detected_total",
			Help: "Recalculations that found cached balances out of sync with the log",
		}),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletledger_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
