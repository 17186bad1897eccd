// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package models

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestRoundDecimal1(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want float64
	}{
		{100, 100},
		{66.66666, 66.7},
		{33.33333, 33.3},
		{2.25, 2.3},
		{-2.25, -2.3},
		{0.04, 0},
		{0.05, 0.1},
		{12.349, 12.3},
	}

	for _, tt := range tests {
		if got := RoundDecimal1(tt.in).Float64(); got != tt.want {
			t.Errorf("RoundDecimal1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecimal1_Rendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Decimal1
		want string
	}{
		{RoundDecimal1(100), "100.0"},
		{RoundDecimal1(66.66666), "66.7"},
		{RoundDecimal1(1), "1.0"},
		{RoundDecimal1(0), "0.0"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("MarshalJSON() = %s, want %s", data, tt.want)
		}
	}
}

func TestDecimal1_MarshalRejectsNaN(t *testing.T) {
	t.Parallel()

	if _, err := Decimal1(math.NaN()).MarshalJSON(); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestDecimal1_UnmarshalRounds(t *testing.T) {
	t.Parallel()

	var d Decimal1
	if err := json.Unmarshal([]byte(`87.14`), &d); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d != 87.1 {
		t.Errorf("got %v, want 87.1", d)
	}
}

func TestAnalysisResult_JSONKeys(t *testing.T) {
	t.Parallel()

	result := AnalysisResult{
		TotalTracks:               3,
		TotalDaysAnalyzed:         1,
		DaysWithActivity:          1,
		ActivityPercentage:        RoundDecimal1(100),
		AverageTracksPerActiveDay: RoundDecimal1(3),
		CurrentStreak:             1,
		MaxStreak:                 1,
		AllStreaks:                []int{1},
		StreakRuns:                []StreakRun{{Start: "2025-01-01", End: "2025-01-01", Length: 1}},
		MostActiveDay:             DayCount{Date: "2025-01-01", Count: 3},
		MissedDays:                []string{},
		FirstDate:                 "2025-01-01",
		LastDate:                  "2025-01-01",
		EvaluatedAt:               time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"total_tracks":3`,
		`"days_with_scrobbles":1`,
		`"listening_percentage":100.0`,
		`"average_tracks_per_listening_day":3.0`,
		`"most_tracks_in_day":{"date":"2025-01-01","count":3}`,
		`"missed_days":[]`,
		`"all_streaks":[1]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}
