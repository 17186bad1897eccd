// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package analysis computes listening streaks and activity statistics.
//
// Analyze is a pure function over one complete batch of listening events. It
// does no I/O, keeps no state between calls, and reads the clock only through
// its now argument, so concurrent callers need no coordination.
//
// # Days
//
// Every completed event is bucketed by the UTC calendar date of its
// timestamp. The analysed range runs from the earliest to the latest active
// date inclusive; dates inside it without plays are reported as missed days.
//
// # Streaks
//
// Active dates are sorted and folded into maximal runs of consecutive days.
// A single isolated day is a run of length 1. The latest run is the current
// streak only while its last day is today or yesterday in UTC:
//
//	plays on Jan 1, 2, 5      now = Jan 6   -> runs [1..2] [5], current 1, max 2
//	plays on Jan 1, 2, 3      now = Jan 10  -> current 0, max 3
//
// AllStreaks lists run lengths newest run first.
//
// # Rounding
//
// Coverage percentage and plays per active day are rounded half away from
// zero to one decimal place (see models.Decimal1).
//
// # Errors
//
// ErrEmptyInput is the only error. It is returned when no completed events
// remain after in-progress events are dropped.
package analysis
