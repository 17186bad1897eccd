// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Command server runs the Scrobblestreak HTTP API.

Scrobblestreak computes listening streaks (runs of consecutive UTC days with
at least one scrobble) for Last.fm users. Histories are fetched page by page
from user.getRecentTracks, analyzed, and returned as a streak report.

# Startup Order

 1. Configuration: defaults, optional config file, environment (Koanf v2)
 2. Logging: zerolog with the configured level and format
 3. Report cache: ristretto, if CACHE_ENABLED
 4. History store: BadgerDB, if STORE_ENABLED
 5. Last.fm ingest: client, circuit breaker and paginating fetcher, if LASTFM_ENABLED
 6. HTTP API: chi router with middleware
 7. Supervisor tree: HTTP server and store GC under suture

# Configuration

Common environment variables:

	LASTFM_API_KEY      Last.fm API key (required when LASTFM_ENABLED=true)
	LASTFM_FROM         default lower bound for fetched scrobbles, Unix seconds
	HTTP_PORT           listen port (default 8645)
	CACHE_TTL           report cache lifetime (default 10m)
	STORE_ENABLED       persist fetched histories in BadgerDB
	STORE_PATH          BadgerDB directory
	LOG_LEVEL           trace, debug, info, warn, error
	LOG_FORMAT          json or console

See internal/config for the full list.

# Example

	export LASTFM_API_KEY=your-api-key
	export STORE_ENABLED=true STORE_PATH=/data/history
	./scrobblestreak

	curl http://localhost:8645/api/v1/users/rj/streaks

# Signals

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server then has
SHUTDOWN_TIMEOUT to finish in-flight requests before the store closes.
*/
package main
