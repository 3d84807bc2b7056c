// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package metrics declares the Prometheus collectors cinerank exports on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation generation
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerank_generation_duration_seconds",
			Help:    "Duration of full recommendation generation runs",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"outcome"}, // success, fallback, error
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_recommendation_requests_total",
			Help: "Recommendation requests by served status",
		},
		[]string{"status"}, // fresh, stale-served, generating, fallback
	)

	LockContention = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerank_generation_lock_contention_total",
			Help: "Generation attempts refused because another run held the user's lock",
		},
	)

	LocksReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinerank_generation_locks_reclaimed_total",
			Help: "Abandoned generation locks reclaimed after the timeout",
		},
	)

	CandidatePoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinerank_candidate_pool_size",
			Help:    "Deduplicated candidates gathered per generation run",
			Buckets: []float64{0, 10, 25, 50, 100, 200, 400},
		},
	)

	FeedbackSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_feedback_total",
			Help: "Feedback submissions by value",
		},
		[]string{"value"}, // good, bad, overall
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_persistence_failures_total",
			Help: "Writes that failed but did not fail the request",
		},
		[]string{"operation"},
	)

	// Catalog client
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerank_catalog_request_duration_seconds",
			Help:    "Duration of catalog API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)

	// Caches
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_events_published_total",
			Help: "Domain events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinerank_events_handled_total",
			Help: "Domain events consumed by topic",
		},
		[]string{"topic"},
	)

	// Circuit breaker
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
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinerank_api_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordGeneration observes one generation run.
func RecordGeneration(outcome string, duration time.Duration, poolSize int) {
	GenerationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if poolSize >= 0 {
		CandidatePoolSize.Observe(float64(poolSize))
	}
}

// RecordCatalogRequest observes one outbound catalog call. A status of 0
// means the request never produced a response.
func RecordCatalogRequest(endpoint string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CatalogRequestDuration.WithLabelValues(endpoint, label).Observe(duration.Seconds())
}

// RecordCacheLookup counts a hit or miss on the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordAPIRequest observes one HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
