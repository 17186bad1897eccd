// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package logging provides the process-wide zerolog logger for Scrobblestreak.
//
// A single global logger is configured once from main() through Init and read
// everywhere else through the level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("user", username).Msg("Ingest started")
//	logging.Err(err).Msg("Last.fm page fetch failed")
//
// # Context
//
// HTTP requests carry a request ID and ingest runs carry a short correlation
// ID. Ctx attaches both to every line written through it:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Debug().Int("page", page).Msg("Fetched page")
//
// # slog bridge
//
// The supervisor tree reports through sutureslog, which expects an
// *slog.Logger. NewSlogLogger returns one that writes through zerolog so all
// output shares the same format.
//
// # Environment
//
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
//
// Always terminate event chains with Msg or Send; an unterminated chain is
// never written.
package logging
