package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gigsy2025/gigsy-reconciler/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics on the shared bundle.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with request counting and timing.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
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

const walletsPrefix = "/api/v1/reconciliation/wallets/"

// normalizePath collapses wallet IDs so metric label cardinality stays
// bounded: /api/v1/reconciliation/wallets/w123/emergency becomes
// /api/v1/reconciliation/wallets/:id/emergency.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, walletsPrefix) {
		return path
	}

	rest := path[len(walletsPrefix):]
	if rest == "" {
		return path
	}

	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return walletsPrefix + ":id" + rest[i:]
	}
	return walletsPrefix + ":id"
}
