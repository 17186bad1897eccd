// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Analysis Metrics
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streak_analysis_duration_seconds",
			Help:    "Time spent deriving streak statistics from one batch",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"source"},
	)

	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streak_analyses_total",
			Help: "Total number of streak analyses by outcome",
		},
		[]string{"source", "result"}, // result: "success", "empty_input"
	)

	AnalysisEvents = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streak_analysis_events",
			Help:    "Number of listening events per analyzed batch",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8), // 10 .. ~160k
		},
	)

	// Last.fm Ingest Metrics
	LastFMPageDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lastfm_page_fetch_duration_seconds",
			Help:    "Duration of user.getrecenttracks page requests",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	LastFMPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lastfm_pages_fetched_total",
			Help: "Total number of recent-tracks pages fetched",
		},
	)

	LastFMErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lastfm_errors_total",
			Help: "Total number of failed Last.fm requests",
		},
		[]string{"error_type"}, // "api", "http", "decode", "transport", "rejected"
	)

	IngestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lastfm_ingest_duration_seconds",
			Help:    "Duration of a full paginated history ingest",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	IngestEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lastfm_ingest_events_total",
			Help: "Total number of listening events ingested from Last.fm",
		},
	)

	IngestErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lastfm_ingest_errors_total",
			Help: "Total number of ingest runs that ended in an error",
		},
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

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// Snapshot Store Metrics
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_store_operations_total",
			Help: "Total number of snapshot store operations",
		},
		[]string{"operation", "result"}, // operation: "get", "put", "delete"; result: "hit", "miss", "ok", "error"
	)

	// WebSocket Metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_progress_connections",
			Help: "Current number of open progress WebSocket connections",
		},
	)

	WebSocketMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_progress_messages_total",
			Help: "Total number of progress stream messages sent",
		},
		[]string{"type"},
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

// RecordRateLimitHit counts a request rejected by the API rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordAnalysis records one run of the streak analyzer. source is "direct"
// for POST /analyze and "lastfm" for ingested history.
func RecordAnalysis(source, result string, events int, duration time.Duration) {
	AnalysisDuration.WithLabelValues(source).Observe(duration.Seconds())
	AnalysisTotal.WithLabelValues(source, result).Inc()
	AnalysisEvents.Observe(float64(events))
}

// RecordLastFMPage records one user.getrecenttracks request. errorType is ""
// on success.
func RecordLastFMPage(duration time.Duration, errorType string) {
	LastFMPageDuration.Observe(duration.Seconds())
	if errorType != "" {
		LastFMErrors.WithLabelValues(errorType).Inc()
		return
	}
	LastFMPagesFetched.Inc()
}

// RecordIngest records a complete ingest run.
func RecordIngest(duration time.Duration, events int, err error) {
	IngestDuration.Observe(duration.Seconds())
	if err != nil {
		IngestErrors.Inc()
		return
	}
	IngestEvents.Add(float64(events))
}

// RecordCacheLookup records a hit or miss against the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordStoreOperation records a snapshot store operation.
func RecordStoreOperation(operation, result string) {
	StoreOperations.WithLabelValues(operation, result).Inc()
}

// TrackWebSocketConnection adjusts the open progress-stream gauge.
func TrackWebSocketConnection(open bool) {
	if open {
		WebSocketConnections.Inc()
	} else {
		WebSocketConnections.Dec()
	}
}

// RecordWebSocketMessage counts a message sent on a progress stream.
func RecordWebSocketMessage(messageType string) {
	WebSocketMessages.WithLabelValues(messageType).Inc()
}
