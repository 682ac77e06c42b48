package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Reconciliation run metrics
	RunsStarted        prometheus.Counter
	RunsCompleted      *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	WalletsChecked     prometheus.Counter
	WalletErrors       prometheus.Counter
	DiscrepanciesFound prometheus.Counter
	DiscrepanciesFixed prometheus.Counter
	DriftAmount        prometheus.Histogram
	FixConflicts       prometheus.Counter

	// Emergency reconciliation metrics
	EmergencyRuns *prometheus.CounterVec

	// Alert metrics
	AlertsEmitted *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates metrics against an explicit registerer,
// used by tests to avoid duplicate registration on the default one.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Reconciliation run metrics
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_runs_started_total",
			Help: "Total number of reconciliation runs started",
		}),
		RunsCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_runs_completed_total",
				Help: "Total number of reconciliation runs finished by status",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciler_run_duration_seconds",
			Help:    "Duration of reconciliation runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),
		WalletsChecked: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_wallets_checked_total",
			Help: "Total number of wallets checked for drift",
		}),
		WalletErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_wallet_errors_total",
			Help: "Total number of per-wallet errors during reconciliation",
		}),
		DiscrepanciesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_discrepancies_found_total",
			Help: "Total number of balance discrepancies found",
		}),
		DiscrepanciesFixed: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_discrepancies_fixed_total",
			Help: "Total number of balance discrepancies corrected",
		}),
		DriftAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciler_drift_amount",
			Help:    "Absolute drift amounts observed",
			Buckets: []float64{0.01, 0.1, 1, 10, 100, 1000, 10000},
		}),
		FixConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_fix_conflicts_total",
			Help: "Total number of corrections rejected by a concurrent balance write",
		}),

		// Emergency reconciliation metrics
		EmergencyRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_emergency_runs_total",
				Help: "Total number of emergency reconciliations by outcome",
			},
			[]string{"outcome"},
		),

		// Alert metrics
		AlertsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_alerts_emitted_total",
				Help: "Total number of alert events emitted by type and severity",
			},
			[]string{"type", "severity"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reconciler_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reconciler_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}
