// Package metrics holds the process-wide Prometheus collectors.
//
// Collectors register on the default registry through promauto and are scraped
// from /metrics via Handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "snapverse"

var (
	// ProviderCalls counts content intelligence calls by operation and outcome
	// (ok, error, rejected).
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_calls_total",
		Help:      "Content intelligence provider calls by operation and outcome",
	}, []string{"op", "outcome"})

	// ProviderLatency tracks provider round trips
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_call_duration_seconds",
		Help:      "Content intelligence provider call latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"op"})

	// AnnotatorFallbacks counts operations answered with the safe default
	// because the provider failed
	AnnotatorFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotator_fallbacks_total",
		Help:      "Annotator operations that returned the safe default",
	}, []string{"op"})

	// CacheLookups counts annotation cache lookups by tier (l1, l2) and result (hit, miss)
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotation_cache_lookups_total",
		Help:      "Annotation cache lookups by tier and result",
	}, []string{"tier", "result"})

	// BatchChunks counts chunks processed by the batch runner
	BatchChunks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "batch_chunks_total",
		Help:      "Chunks processed by the batch runner",
	})

	// StageDuration times the feed pipeline stages (curate, trending, filter)
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_stage_duration_seconds",
		Help:      "Feed pipeline stage latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	// ImpressionsWritten counts impressions recorded to analytics
	ImpressionsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "impressions_written_total",
		Help:      "Feed impressions written to analytics",
	})
)

// RecordProviderCall records one provider round trip
func RecordProviderCall(op, outcome string, d time.Duration) {
	ProviderCalls.WithLabelValues(op, outcome).Inc()
	ProviderLatency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordFallback records an annotator fail-safe answer
func RecordFallback(op string) { AnnotatorFallbacks.WithLabelValues(op).Inc() }

// RecordCache records a cache lookup
func RecordCache(tier string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(tier, result).Inc()
}

// ObserveStage records the time since start for a pipeline stage
func ObserveStage(stage string, start time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }
