// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package metrics defines the Prometheus metrics exported on /metrics.
//
// Metrics are registered with the default registry through promauto at
// package init. Callers use the Record* and Track* helpers rather than the
// vectors directly so label values stay consistent:
//
//	start := time.Now()
//	result, err := analysis.Analyze(events, now)
//	metrics.RecordAnalysis("direct", "success", len(events), time.Since(start))
//
// Families:
//   - api_*: request counts, latency, in-flight requests, rate limit rejections
//   - streak_analysis_*: analyzer runs and batch sizes
//   - lastfm_*: page fetches, ingest runs, upstream errors
//   - circuit_breaker_*: state of the Last.fm circuit breaker
//   - cache_* and snapshot_store_*: report cache and BadgerDB snapshot store
//   - websocket_progress_*: ingest progress streams
package metrics
