// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/scrobblestreak/internal/logging"
)

// slowRequestThreshold promotes access log lines to warn level.
const slowRequestThreshold = 5 * time.Second

// AccessLog writes one structured line per completed request. It must run
// after RequestID so the line carries request_id and correlation_id.
// 5xx responses and requests slower than 5s log at warn; the rest at debug,
// except WebSocket upgrades, which log at info.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		logger := logging.Ctx(r.Context())

		var event *zerolog.Event
		switch {
		case ww.statusCode >= http.StatusInternalServerError || duration > slowRequestThreshold:
			event = logger.Warn()
		case ww.statusCode == http.StatusSwitchingProtocols:
			event = logger.Info()
		default:
			event = logger.Debug()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("route", routePattern(r)).
			Int("status", ww.statusCode).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("request completed")
	})
}
