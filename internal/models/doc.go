// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package models defines the data structures shared across Scrobblestreak.

Key Components:

  - ListeningEvent: one play, a Unix timestamp plus the now-playing flag
  - AnalysisResult: streak statistics for a batch of events
  - StreakRun, DayCount: parts of an AnalysisResult
  - ListeningHistory: a user's fetched events for one window, as stored
  - StreakReport: the per-user endpoint payload
  - Decimal1: a float rounded to one decimal place that always marshals
    with exactly one fractional digit

All calendar dates are UTC and formatted with DateLayout (YYYY-MM-DD).

Subpackage lastfm holds the wire format of the Last.fm user.getRecentTracks
response.
*/
package models
