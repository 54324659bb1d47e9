// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Strategy label values for SurfaceRequestsTotal.
const (
	StrategyDNA      = "dna"
	StrategyFallback = "fallback"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discovery_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_recommend_requests_total",
			Help: "Total number of recommendation operations",
		},
		[]string{"operation"}, // "recommend", "similar"
	)

	RecommendCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_recommend_candidates",
			Help:    "Number of candidates scored per recommendation operation",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"operation"},
	)

	RecommendResults = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_recommend_results",
			Help:    "Number of items kept after threshold filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"operation"},
	)

	SurfaceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_surface_requests_total",
			Help: "Discovery surface requests by ranking strategy",
		},
		[]string{"surface", "strategy"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_db_query_duration_seconds",
			Help:    "Duration of content store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_db_query_errors_total",
			Help: "Total number of content store query errors",
		},
		[]string{"operation"},
	)

	// LLM Metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_llm_requests_total",
			Help: "Total number of language model requests",
		},
		[]string{"operation", "outcome"}, // outcome: "success", "error", "rejected"
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discovery_llm_request_duration_seconds",
			Help:    "Duration of language model requests in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "discovery_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	AffinityCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_affinity_cache_total",
			Help: "Affinity score cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Background Metrics
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_events_total",
			Help: "Domain events published and handled",
		},
		[]string{"topic", "outcome"}, // outcome: "published", "handled", "failed"
	)

	BackfillItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discovery_dna_backfill_items_total",
			Help: "Items processed by the DNA backfill loop",
		},
		[]string{"outcome"}, // "updated", "skipped", "failed"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records the size of a recommendation pass.
func RecordRecommendation(operation string, candidates, results int) {
	RecommendRequestsTotal.WithLabelValues(operation).Inc()
	RecommendCandidates.WithLabelValues(operation).Observe(float64(candidates))
	RecommendResults.WithLabelValues(operation).Observe(float64(results))
}

// RecordSurface records which strategy served a discovery surface.
func RecordSurface(surface string, personalized bool) {
	strategy := StrategyFallback
	if personalized {
		strategy = StrategyDNA
	}
	SurfaceRequestsTotal.WithLabelValues(surface, strategy).Inc()
}

// RecordDBQuery records a content store query
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordLLMRequest records a language model call.
func RecordLLMRequest(operation, outcome string, duration time.Duration) {
	LLMRequestsTotal.WithLabelValues(operation, outcome).Inc()
	if outcome != "rejected" {
		LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// SetCircuitBreakerState records a breaker transition. state is 0, 1 or 2.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordAffinityCache records an affinity cache lookup.
func RecordAffinityCache(hit bool) {
	if hit {
		AffinityCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	AffinityCacheTotal.WithLabelValues("miss").Inc()
}

// RecordEvent records a domain event outcome.
func RecordEvent(topic, outcome string) {
	EventsTotal.WithLabelValues(topic, outcome).Inc()
}

// RecordBackfill records the outcome of one backfilled item.
func RecordBackfill(outcome string) {
	BackfillItemsTotal.WithLabelValues(outcome).Inc()
}
