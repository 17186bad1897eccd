// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package analysis

import (
	"errors"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/models"
)

// ErrEmptyInput is returned when a batch holds no completed events, either
// because it is empty or because every event is still in progress.
var ErrEmptyInput = errors.New("no completed listening events to analyze")

// Analyze derives streak and activity statistics from events.
//
// now decides whether the latest run is still current: it is when its last
// day is the UTC date of now or the day before. The same events and now
// always produce the same result. events is not modified.
func Analyze(events []models.ListeningEvent, now time.Time) (*models.AnalysisResult, error) {
	counts, total := dailyCounts(events)
	if total == 0 {
		return nil, ErrEmptyInput
	}

	days := sortedDays(counts)
	first, last := days[0], days[len(days)-1]
	span := int(last-first) + 1

	runs := foldRuns(days)
	current := currentStreak(runs, dayOfTime(now))
	longest := current
	for _, r := range runs {
		if n := r.length(); n > longest {
			longest = n
		}
	}
	lengths, records := newestFirst(runs)

	return &models.AnalysisResult{
		TotalTracks:               total,
		TotalDaysAnalyzed:         span,
		DaysWithActivity:          len(days),
		ActivityPercentage:        models.RoundDecimal1(float64(len(days)) / float64(span) * 100),
		AverageTracksPerActiveDay: models.RoundDecimal1(float64(total) / float64(len(days))),
		CurrentStreak:             current,
		MaxStreak:                 longest,
		AllStreaks:                lengths,
		StreakRuns:                records,
		MostActiveDay:             mostActiveDay(days, counts),
		MissedDays:                missedDays(days),
		FirstDate:                 first.String(),
		LastDate:                  last.String(),
		EvaluatedAt:               now.UTC(),
	}, nil
}
