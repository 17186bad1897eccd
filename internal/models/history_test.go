// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestListeningHistory_Truncated(t *testing.T) {
	tests := []struct {
		name       string
		pages      int
		totalPages int
		want       bool
	}{
		{"complete", 3, 3, false},
		{"stopped early", 2, 5, true},
		{"empty history", 1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &ListeningHistory{Pages: tt.pages, TotalPages: tt.totalPages}
			if got := h.Truncated(); got != tt.want {
				t.Errorf("Truncated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStreakReport_JSON(t *testing.T) {
	rpt := StreakReport{
		User:      "rj",
		From:      1700000000,
		Source:    SourceStore,
		Truncated: true,
		FetchedAt: time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC),
		Analysis:  &AnalysisResult{MaxStreak: 4, AllStreaks: []int{4}},
	}

	data, err := json.Marshal(rpt)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{
		`"user":"rj"`,
		`"from":1700000000`,
		`"source":"store"`,
		`"truncated":true`,
		`"fetched_at":"2025-01-31T12:00:00Z"`,
		`"max_streak":4`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON %s missing %s", data, want)
		}
	}

	var back ListeningHistory
	history := ListeningHistory{User: "rj", Events: []ListeningEvent{{Timestamp: 1, InProgress: true}}}
	data, err = json.Marshal(history)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(back.Events) != 1 || !back.Events[0].InProgress {
		t.Errorf("events = %+v", back.Events)
	}
}
