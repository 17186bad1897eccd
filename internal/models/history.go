// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package models

import "time"

// ListeningHistory is one user's ingested events for a history window,
// as persisted by the snapshot store.
type ListeningHistory struct {
	User       string           `json:"user"`
	From       int64            `json:"from"`
	Events     []ListeningEvent `json:"events"`
	Pages      int              `json:"pages"`
	TotalPages int              `json:"total_pages"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

// Truncated reports whether the ingest stopped before the last page.
func (h *ListeningHistory) Truncated() bool {
	return h.Pages < h.TotalPages
}

// StreakReport is the response of the per-user streak endpoints: the
// analysis plus where its input came from.
type StreakReport struct {
	User      string          `json:"user"`
	From      int64           `json:"from"`
	Source    string          `json:"source"` // "lastfm", "store" or "cache"
	Truncated bool            `json:"truncated"`
	FetchedAt time.Time       `json:"fetched_at"`
	Analysis  *AnalysisResult `json:"analysis"`
}

// Report sources.
const (
	SourceLastFM = "lastfm"
	SourceStore  = "store"
	SourceCache  = "cache"
)
