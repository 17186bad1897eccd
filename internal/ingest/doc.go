// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package ingest pulls a user's scrobble history from the Last.fm web service.

Layers, outermost first:

  - Fetcher walks user.getrecenttracks page by page, converts tracks to
    models.ListeningEvent and reports Progress after every page.
  - CircuitBreakerClient (sony/gobreaker/v2) stops calling Last.fm after a
    run of failures and rejects requests with gobreaker.ErrOpenState.
  - Client performs one HTTP request, paced by a golang.org/x/time/rate
    token bucket, and decodes the body with goccy/go-json.

Usage:

	client := ingest.NewCircuitBreakerClient(ingest.NewClient(&cfg.LastFM))
	fetcher := ingest.NewFetcher(client, &cfg.LastFM)

	history, err := fetcher.Fetch(ctx, "rj", cfg.LastFM.From, func(p ingest.Progress) {
	    logging.Info().Int("page", p.Page).Int("percentage", p.Percentage).Msg("progress")
	})

Errors:

Last.fm error bodies ({"error":6,"message":"User not found"}) become
*APIError whether they arrive with status 200 or 4xx. ErrorMessage turns any
ingest error into the text shown to clients, falling back to
DefaultErrorMessage. Nothing is retried: a failed page fails the ingest.

The API key never appears in logs; transport errors have it masked with
logging.SanitizeURL.
*/
package ingest
