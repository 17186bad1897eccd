// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package analysis

import "github.com/tomtom215/scrobblestreak/internal/models"

// run is an inclusive range of consecutive active days.
type run struct {
	start day
	end   day
}

func (r run) length() int {
	return int(r.end-r.start) + 1
}

// extends reports whether d continues r without a gap.
func (r run) extends(d day) bool {
	return d == r.end+1
}

func (r run) toModel() models.StreakRun {
	return models.StreakRun{
		Start:  r.start.String(),
		End:    r.end.String(),
		Length: r.length(),
	}
}

// foldRuns splits ascending, de-duplicated days into maximal runs.
// The returned runs are in chronological order and never overlap.
func foldRuns(days []day) []run {
	if len(days) == 0 {
		return nil
	}

	runs := make([]run, 0, 8)
	open := run{start: days[0], end: days[0]}
	for _, d := range days[1:] {
		if open.extends(d) {
			open = run{start: open.start, end: d}
			continue
		}
		runs = append(runs, open)
		open = run{start: d, end: d}
	}
	return append(runs, open)
}

// currentStreak returns the length of the latest run when it ends today or
// yesterday relative to today, and 0 otherwise. A latest run ending after
// today counts as current.
func currentStreak(runs []run, today day) int {
	if len(runs) == 0 {
		return 0
	}
	latest := runs[len(runs)-1]
	if today-latest.end > 1 {
		return 0
	}
	return latest.length()
}

// newestFirst returns run lengths and run records ordered from the most
// recent run back to the oldest.
func newestFirst(runs []run) ([]int, []models.StreakRun) {
	lengths := make([]int, 0, len(runs))
	records := make([]models.StreakRun, 0, len(runs))
	for i := len(runs) - 1; i >= 0; i-- {
		lengths = append(lengths, runs[i].length())
		records = append(records, runs[i].toModel())
	}
	return lengths, records
}
