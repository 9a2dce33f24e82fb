package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolve outcomes recorded against ResolvesTotal.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeForced   = "forced"
	OutcomeDegraded = "degraded"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

var (
	// Resolve counters by branch taken
	ResolvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gramcache",
			Name:      "resolves_total",
			Help:      "Total resolve calls by outcome",
		},
		[]string{"outcome"},
	)

	// Extraction counters
	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gramcache",
			Name:      "extractions_total",
			Help:      "Total extractor invocations",
		},
		[]string{"status"},
	)

	// Extraction duration histogram
	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gramcache",
			Name:      "extraction_duration_seconds",
			Help:      "Outbound extraction duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	// Store operation counters
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gramcache",
			Name:      "store_operations_total",
			Help:      "Total store operations",
		},
		[]string{"operation", "status"},
	)
)

// RecordResolve records the branch a resolve call took.
func RecordResolve(outcome string) {
	ResolvesTotal.WithLabelValues(outcome).Inc()
}

// RecordExtraction records an extractor invocation.
func RecordExtraction(status string, durationSec float64) {
	ExtractionsTotal.WithLabelValues(status).Inc()
	ExtractionDuration.Observe(durationSec)
}

// RecordStoreOperation records a store call and its outcome.
func RecordStoreOperation(operation, status string) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}
