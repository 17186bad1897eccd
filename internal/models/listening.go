// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package models

import "time"

// DateLayout is the calendar-date format used for every day in a report.
const DateLayout = "2006-01-02"

// ListeningEvent is a single track play.
//
// Timestamp is the completion instant in seconds since the Unix epoch. An event
// with InProgress set is the track currently playing; it has not been counted
// as a play yet and is ignored by the analyzer. Batches carry no ordering
// guarantee.
type ListeningEvent struct {
	Timestamp  int64 `json:"timestamp"`
	InProgress bool  `json:"is_in_progress"`
}

// StreakRun is a maximal run of consecutive active days.
//
// Start and End are inclusive calendar dates; a single isolated day is a run
// with Start == End and Length 1.
type StreakRun struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// DayCount pairs a calendar date with the number of plays on it.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalysisResult holds the statistics derived from one batch of listening events.
//
// A result is built once and never mutated afterwards, so it can be cached and
// shared between requests. JSON shape:
//
//	{
//	  "total_tracks": 412,
//	  "total_days_analyzed": 31,
//	  "days_with_scrobbles": 27,
//	  "listening_percentage": 87.1,
//	  "average_tracks_per_listening_day": 15.3,
//	  "current_streak": 6,
//	  "max_streak": 11,
//	  "all_streaks": [6, 11, 4, 3, 2, 1],
//	  "most_tracks_in_day": {"date": "2025-01-12", "count": 48},
//	  "missed_days": ["2025-01-05", ...],
//	  "first_date": "2025-01-01",
//	  "last_date": "2025-01-31"
//	}
type AnalysisResult struct {
	// TotalTracks counts completed events only.
	TotalTracks int `json:"total_tracks"`

	// TotalDaysAnalyzed is the inclusive number of calendar days from FirstDate to LastDate.
	TotalDaysAnalyzed int `json:"total_days_analyzed"`

	// DaysWithActivity counts distinct days with at least one completed event.
	DaysWithActivity int `json:"days_with_scrobbles"`

	ActivityPercentage        Decimal1 `json:"listening_percentage"`
	AverageTracksPerActiveDay Decimal1 `json:"average_tracks_per_listening_day"`

	// CurrentStreak is 0 unless the latest active day is today or yesterday.
	CurrentStreak int `json:"current_streak"`
	MaxStreak     int `json:"max_streak"`

	// AllStreaks lists every run length, newest run first.
	AllStreaks []int `json:"all_streaks"`

	// StreakRuns carries the same runs as AllStreaks with their date bounds.
	StreakRuns []StreakRun `json:"streak_runs"`

	MostActiveDay DayCount `json:"most_tracks_in_day"`

	// MissedDays lists, oldest first, the days between FirstDate and LastDate with no plays.
	MissedDays []string `json:"missed_days"`

	FirstDate string `json:"first_date"`
	LastDate  string `json:"last_date"`

	// EvaluatedAt is the instant the current streak was judged against.
	EvaluatedAt time.Time `json:"evaluated_at"`
}
