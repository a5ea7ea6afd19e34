// Package metrics exposes Prometheus counters and histograms for the
// retrieval pipeline's stage latencies, fallback activations, and adaptive
// threshold adjustments, realizing spec.md §5's "metrics and logs are
// write-only sinks" note: nothing in this package is ever read back by the
// pipeline itself.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StageDuration records wall-clock time spent in each retrieval stage.
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legalrag_retrieval_stage_duration_seconds",
			Help:    "Duration of each retrieval pipeline stage.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	// FallbackActivations counts keyword-anchoring fallback activations.
	FallbackActivations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "legalrag_keyword_fallback_activations_total",
		Help: "Total number of times the keyword-anchoring fallback fired.",
	})

	// ThresholdAdjustments counts adaptive-threshold tightenings/loosenings.
	ThresholdAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalrag_adaptive_threshold_adjustments_total",
			Help: "Total number of adaptive threshold adjustments, by direction.",
		},
		[]string{"direction"},
	)

	// IngestedChunks counts chunks written per declared document type.
	IngestedChunks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalrag_ingested_chunks_total",
			Help: "Total chunks written to the index, by declared document type.",
		},
		[]string{"doc_type"},
	)

	// QueriesTotal counts completed queries by response type.
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalrag_queries_total",
			Help: "Total completed queries, by response type.",
		},
		[]string{"response_type"},
	)
)

func init() {
	prometheus.MustRegister(StageDuration, FallbackActivations, ThresholdAdjustments, IngestedChunks, QueriesTotal)
}

// ObserveStage records how long a named pipeline stage took.
func ObserveStage(stage string, since time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(since).Seconds())
}

// RecordThresholdAdjustment increments the counter for a tighten/loosen/none
// adjustment direction.
func RecordThresholdAdjustment(direction string) {
	ThresholdAdjustments.WithLabelValues(direction).Inc()
}
