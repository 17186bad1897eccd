// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package middleware provides chi-compatible HTTP middleware for request
tracking, access logging, Prometheus instrumentation and gzip compression.

Every middleware has the func(http.Handler) http.Handler shape so it can be
passed straight to chi.Router.Use. CORS, rate limiting, panic recovery and
real-IP handling come from the chi ecosystem and are assembled in
internal/api.

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)         // X-Request-ID + logging context
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)         // one zerolog line per request
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics) // api_requests_total et al.
	r.Use(middleware.Compression)       // gzip via klauspost/compress

Request ID:

RequestID reuses an upstream X-Request-ID when present and bounded in length,
otherwise it generates a UUID. The ID is written to the response header and
stored in the context for logging.Ctx and chimiddleware.GetReqID.

Metrics:

PrometheusMetrics labels requests by chi route pattern, so
/api/v1/users/rj/streaks and /api/v1/users/alice/streaks share one series.
Requests that match no route are labeled "unmatched". The wrapped writer
implements http.Hijacker so WebSocket upgrades still work behind it.

Compression:

Compression skips clients without Accept-Encoding: gzip, HEAD requests and
WebSocket upgrades. gzip writers are pooled.

See Also:

  - internal/api: router assembly and handlers
  - internal/metrics: Prometheus metrics definitions
  - internal/logging: context-aware zerolog helpers
*/
package middleware
