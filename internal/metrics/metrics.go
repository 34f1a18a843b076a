package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Columnforge
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Configuration Engine Metrics
	WizardSessionsActive     prometheus.Gauge
	WizardSessionsTotal      prometheus.Counter
	ConfigurationsCompleted  prometheus.Counter
	PowerCalculationsTotal   prometheus.CounterVec
	StaleResponsesDiscarded  prometheus.Counter
	PowerCalcDuration        prometheus.Histogram
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "columnforge_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "columnforge_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "columnforge_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "columnforge_cache_hits_total",
				Help: "Catalog cache hits by key prefix",
			},
			[]string{"prefix"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "columnforge_cache_misses_total",
				Help: "Catalog cache misses by key prefix",
			},
			[]string{"prefix"},
		),

		WizardSessionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "columnforge_wizard_sessions_active",
				Help: "Wizard sessions currently open",
			},
		),
		WizardSessionsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "columnforge_wizard_sessions_total",
				Help: "Wizard sessions created since startup",
			},
		),
		ConfigurationsCompleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "columnforge_configurations_completed_total",
				Help: "Configurations successfully assembled and handed to the caller",
			},
		),
		PowerCalculationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "columnforge_power_calculations_total",
				Help: "Power budget calculations by outcome (valid, invalid, error)",
			},
			[]string{"outcome"},
		),
		StaleResponsesDiscarded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "columnforge_stale_responses_discarded_total",
				Help: "Async responses dropped because a newer selection epoch superseded them",
			},
		),
		PowerCalcDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "columnforge_power_calculation_duration_seconds",
				Help:    "Power budget calculation latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
	}
}
