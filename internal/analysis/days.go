// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package analysis

import (
	"slices"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/models"
)

const secondsPerDay = 24 * 60 * 60

// day is a UTC calendar date expressed as whole days since 1970-01-01.
// Consecutive dates differ by exactly 1, which keeps gap checks free of
// time.Duration arithmetic.
type day int64

// dayOf returns the UTC calendar date containing the Unix instant ts.
func dayOf(ts int64) day {
	d := ts / secondsPerDay
	if ts%secondsPerDay < 0 {
		d--
	}
	return day(d)
}

// dayOfTime returns the UTC calendar date containing t.
func dayOfTime(t time.Time) day {
	return dayOf(t.Unix())
}

// String formats d as YYYY-MM-DD.
func (d day) String() string {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC().Format(models.DateLayout)
}

// dailyCounts tallies completed events per UTC date and returns the total
// number of completed events.
func dailyCounts(events []models.ListeningEvent) (map[day]int, int) {
	counts := make(map[day]int)
	total := 0
	for _, ev := range events {
		if ev.InProgress {
			continue
		}
		counts[dayOf(ev.Timestamp)]++
		total++
	}
	return counts, total
}

// sortedDays returns the keys of counts in ascending order.
func sortedDays(counts map[day]int) []day {
	days := make([]day, 0, len(counts))
	for d := range counts {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// missedDays lists the dates strictly between the first and last element of
// the ascending slice days that are not themselves in days.
func missedDays(days []day) []string {
	missed := make([]string, 0)
	for i := 1; i < len(days); i++ {
		for d := days[i-1] + 1; d < days[i]; d++ {
			missed = append(missed, d.String())
		}
	}
	return missed
}

// mostActiveDay returns the date with the highest count. days must be
// ascending so that ties resolve to the earliest date.
func mostActiveDay(days []day, counts map[day]int) models.DayCount {
	best := days[0]
	for _, d := range days[1:] {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return models.DayCount{Date: best.String(), Count: counts[best]}
}
