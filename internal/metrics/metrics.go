// Package metrics provides Prometheus metrics for the enhancement calculator.
// Metrics are registered with the default registry via promauto and served
// on /metrics by the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "enhance"

var (
	// PriceLookupsTotal counts market price resolutions by region and source.
	// source: cache | market | stale | default | missing
	PriceLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "price_lookups_total",
			Help:      "Total number of price lookups by region and the source that answered.",
		},
		[]string{"region", "source"},
	)

	// MarketFetchDurationSeconds is the latency of one upstream price fetch.
	MarketFetchDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream market price fetches in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"source"},
	)

	// CascadesTotal counts cascade computations by family and outcome.
	// outcome: ok | rejected | error
	CascadesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cascades_total",
			Help:      "Total number of cascade computations by family and outcome.",
		},
		[]string{"family", "outcome"},
	)

	// CascadeDurationSeconds covers price collection plus evaluation.
	CascadeDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cascade_duration_seconds",
			Help:      "Cascade computation duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms to ~9.3s
		},
	)

	// SimulatedAttemptsTotal counts rolled attempts by outcome.
	SimulatedAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulated_attempts_total",
			Help:      "Total number of simulated enhancement attempts by outcome.",
		},
		[]string{"outcome"},
	)

	// CatalogReloadsTotal counts hot reloads by result.
	// result: ok | failed
	CatalogReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Total number of catalog reloads by result.",
		},
		[]string{"result"},
	)
)
