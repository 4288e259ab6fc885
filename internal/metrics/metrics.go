// ReelMatch - Semantic Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Embedding Index Metrics
	IndexBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_index_build_duration_seconds",
			Help:    "Duration of embedding index builds in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"source"},
	)

	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_index_builds_total",
			Help: "Total number of embedding index builds",
		},
		[]string{"source", "result"},
	)

	IndexEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_index_entries",
			Help: "Number of catalog entries in the active embedding index",
		},
	)

	IndexDimensions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_index_dimensions",
			Help: "Vector dimensionality of the active embedding index",
		},
	)

	IndexLastBuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_index_last_build_timestamp_seconds",
			Help: "Unix time of the last successful index swap",
		},
	)

	IndexRefreshChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_index_refresh_checks_total",
			Help: "Catalog fingerprint checks performed by the refresh service",
		},
		[]string{"result"}, // "unchanged", "rebuilt", "error"
	)

	// Embedding Cache Metrics
	EmbeddingCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_embedding_cache_operations_total",
			Help: "Embedding cache loads and saves by result",
		},
		[]string{"backend", "operation", "result"},
	)

	// Encoder Metrics
	EncoderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_encoder_requests_total",
			Help: "Total number of encoder batch calls",
		},
		[]string{"provider", "result"},
	)

	EncoderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_encoder_duration_seconds",
			Help:    "Latency of encoder batch calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	EncoderTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_encoder_texts_total",
			Help: "Total number of texts submitted to the encoder",
		},
		[]string{"provider"},
	)

	EncoderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_encoder_retries_total",
			Help: "Total number of retried encoder HTTP attempts",
		},
		[]string{"provider"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_recommendation_duration_seconds",
			Help:    "Latency of recommendation requests in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// Fallback Metrics
	FallbackRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_fallback_requests_total",
			Help: "Total number of external search fallback requests",
		},
		[]string{"provider", "result"},
	)

	// Vector Mirror Metrics
	MirrorPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_mirror_publishes_total",
			Help: "Snapshots published to external vector stores",
		},
		[]string{"sink", "result"},
	)

	// HTTP Metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_http_requests_total",
			Help: "Total number of ops HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_http_request_duration_seconds",
			Help:    "Ops HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// resultLabel maps an error to "success" or "error".
func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordIndexBuild records an index build attempt.
func RecordIndexBuild(source string, duration time.Duration, err error) {
	IndexBuildDuration.WithLabelValues(source).Observe(duration.Seconds())
	IndexBuildsTotal.WithLabelValues(source, resultLabel(err)).Inc()
}

// SetActiveIndex publishes the shape of the snapshot now serving queries.
func SetActiveIndex(entries, dimensions int, builtAt time.Time) {
	IndexEntries.Set(float64(entries))
	IndexDimensions.Set(float64(dimensions))
	IndexLastBuildTimestamp.Set(float64(builtAt.Unix()))
}

// RecordRefreshCheck records one pass of the refresh loop.
func RecordRefreshCheck(result string) {
	IndexRefreshChecks.WithLabelValues(result).Inc()
}

// RecordCacheOp records an embedding cache load or save.
func RecordCacheOp(backend, operation, result string) {
	EmbeddingCacheOps.WithLabelValues(backend, operation, result).Inc()
}

// RecordEncode records an encoder batch call.
func RecordEncode(provider string, texts int, duration time.Duration, err error) {
	EncoderRequests.WithLabelValues(provider, resultLabel(err)).Inc()
	EncoderDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err == nil {
		EncoderTexts.WithLabelValues(provider).Add(float64(texts))
	}
}

// RecordEncoderRetry records a retried encoder HTTP attempt.
func RecordEncoderRetry(provider string) {
	EncoderRetries.WithLabelValues(provider).Inc()
}

// RecordRecommendation records a recommendation request outcome.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordFallback records an external search fallback call.
// result is "success", "empty" or "error".
func RecordFallback(provider, result string) {
	FallbackRequests.WithLabelValues(provider, result).Inc()
}

// RecordMirrorPublish records a snapshot publish to an external vector store.
func RecordMirrorPublish(sink string, err error) {
	MirrorPublishes.WithLabelValues(sink, resultLabel(err)).Inc()
}

// RecordHTTPRequest records an ops HTTP request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
