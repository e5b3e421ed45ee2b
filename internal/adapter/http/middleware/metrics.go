package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/venduo/walletledger/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counts and latency.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with metrics recording.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath replaces path IDs with placeholders to keep label
// cardinality bounded.
// /api/v1/wallets/01ABC/holds/h-9 -> /api/v1/wallets/:id/holds/:holdID
func normalizePath(path string) string {
	for _, prefix := range []string{"/api/v1/wallets/", "/api/v1/entries/"} {
		if !strings.HasPrefix(path, prefix) || len(path) == len(prefix) {
			continue
		}

		rest := path[len(prefix):]
		normalized := prefix + ":id"

		if i := strings.IndexByte(rest, '/'); i >= 0 {
			suffix := rest[i:]
			if after, ok := strings.CutPrefix(suffix, "/holds/"); ok && after != "" {
				holdRest := ""
				if j := strings.IndexByte(after, '/'); j >= 0 {
					holdRest = after[j:]
				}
				return normalized + "/holds/:holdID" + holdRest
			}
			return normalized + suffix
		}

		return normalized
	}

	return path
}
