// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package config loads Scrobblestreak configuration with Koanf v2.

Sources, lowest to highest precedence:

 1. Built-in defaults
 2. A YAML file: $CONFIG_PATH, else config.yaml / config.yml in the working
    directory, else /etc/scrobblestreak/config.yaml
 3. Environment variables

Example config.yaml:

	lastfm:
	  enabled: true
	  api_key: "0123456789abcdef"
	  page_limit: 200
	  from: 1735668000
	server:
	  port: 8645
	store:
	  enabled: true
	  path: /var/lib/scrobblestreak

Environment variables:

	LASTFM_ENABLED, LASTFM_API_KEY, LASTFM_BASE_URL, LASTFM_PAGE_LIMIT,
	LASTFM_FROM, LASTFM_MAX_PAGES, LASTFM_TIMEOUT,
	LASTFM_REQUESTS_PER_SECOND, LASTFM_BURST
	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
	CACHE_ENABLED, CACHE_TTL, CACHE_MAX_ENTRIES
	STORE_ENABLED, STORE_PATH, STORE_IN_MEMORY, STORE_TTL, STORE_GC_INTERVAL
	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
	LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Durations use Go syntax ("30s", "10m"). CORS_ORIGINS is comma-separated.

Validate runs the validate struct tags through the validation package and then
cross-field checks; LASTFM_API_KEY is only required when LASTFM_ENABLED=true.
*/
package config
