// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package api provides the HTTP interface of Scrobblestreak.

Endpoints:

	POST /api/v1/analyze                      analyze a posted batch of events
	GET  /api/v1/users/{username}/streaks     streak report for a Last.fm user
	GET  /api/v1/users/{username}/streaks/ws  same, streamed over a WebSocket
	GET  /api/v1/health/live                  liveness probe
	GET  /api/v1/health/ready                 readiness probe
	GET  /metrics                             Prometheus metrics

Response Format:

Every JSON endpoint answers with the same envelope:

	{
	  "success": true,
	  "data": { ... },
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 12}
	}

Failures set success to false and carry {"code", "message"} in error. Codes:

	BAD_REQUEST              400  malformed body or query parameter
	VALIDATION_FAILED        400  a field broke a validation rule
	NOT_FOUND                404  unknown route or unknown Last.fm user
	EMPTY_INPUT              422  no completed events to analyze
	TOO_MANY_REQUESTS        429  rate limit exceeded
	EXTERNAL_SERVICE_FAILED  502  Last.fm request failed
	SERVICE_UNAVAILABLE      503  ingest disabled, circuit open or timeout

Streaming:

The WebSocket endpoint sends {"type":"progress","data":{page,total_pages,
percentage,eta_seconds}} after every fetched page, then exactly one "result"
message with the report or one "error" message with {code, message}, then a
normal close frame. Reports served from cache or store send no progress.

Middleware:

Request IDs, access logging, panic recovery, Prometheus instrumentation and
CORS apply to every route. The API routes add httprate limiting, security
headers and gzip compression; the WebSocket route is not compressed.

See Also:

  - internal/report: cache, store and Last.fm orchestration
  - internal/analysis: the streak analyzer
  - internal/middleware: request ID, access log, metrics and compression
*/
package api
