// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package ingest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/models"
)

// Progress describes an ingest after a page has been fetched.
type Progress struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Percentage int           `json:"percentage"`
	ETA        time.Duration `json:"-"`
}

// ETASeconds is ETA in whole seconds for wire formats.
func (p Progress) ETASeconds() int64 {
	return int64(p.ETA / time.Second)
}

// ProgressFunc receives a Progress after every page. It runs on the fetching
// goroutine and must not block for long.
type ProgressFunc func(Progress)

// Fetcher walks every page of a user's recent tracks.
type Fetcher struct {
	source    RecentTracksSource
	pageLimit int
	maxPages  int
	now       func() time.Time
}

// NewFetcher creates a fetcher that reads pages through source.
func NewFetcher(source RecentTracksSource, cfg *config.LastFMConfig) *Fetcher {
	return &Fetcher{
		source:    source,
		pageLimit: cfg.PageLimit,
		maxPages:  cfg.MaxPages,
		now:       time.Now,
	}
}

// Fetch retrieves user's scrobbles from the Unix second from onward, page by
// page, until the page number passes the totalPages Last.fm reports on the
// latest page. Now-playing tracks are returned with InProgress set.
//
// When the configured page bound is hit the history is returned as is and
// Truncated reports true. Any page error aborts the whole fetch; partial
// histories are never returned alongside an error.
func (f *Fetcher) Fetch(ctx context.Context, user string, from int64, onProgress ProgressFunc) (*models.ListeningHistory, error) {
	if logging.CorrelationIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewCorrelationID(ctx)
	}
	logger := logging.Ctx(ctx).With().Str("component", "ingest").Str("user", user).Logger()

	start := f.now()
	history := &models.ListeningHistory{
		User:   user,
		From:   from,
		Events: make([]models.ListeningEvent, 0, f.pageLimit),
	}

	var err error
	defer func() {
		metrics.RecordIngest(f.now().Sub(start), len(history.Events), err)
	}()

	totalPages := 1
	for page := 1; page <= totalPages; page++ {
		if f.maxPages > 0 && page > f.maxPages {
			logger.Warn().Int("max_pages", f.maxPages).Int("total_pages", totalPages).Msg("Ingest stopped at page bound")
			break
		}

		var tracks []models.ListeningEvent
		tracks, totalPages, err = f.fetchPage(ctx, user, from, page)
		if err != nil {
			logger.Warn().Err(err).Int("page", page).Msg("Ingest failed")
			return nil, fmt.Errorf("fetch page %d for %s: %w", page, user, err)
		}

		history.Events = append(history.Events, tracks...)
		history.Pages = page
		history.TotalPages = totalPages

		p := newProgress(page, totalPages, f.now().Sub(start))
		logger.Debug().Int("page", p.Page).Int("total_pages", p.TotalPages).Int("percentage", p.Percentage).Dur("eta", p.ETA).Msg("Fetched page")
		if onProgress != nil {
			onProgress(p)
		}
	}

	history.FetchedAt = f.now().UTC()
	logger.Info().
		Int("events", len(history.Events)).
		Int("pages", history.Pages).
		Int("total_pages", history.TotalPages).
		Dur("duration", f.now().Sub(start)).
		Msg("Ingest completed")

	return history, nil
}

// fetchPage returns the page's events and the total page count it reports.
// A user with no scrobbles in the window reports zero pages; that is treated
// as a single empty page so the loop ends after it.
func (f *Fetcher) fetchPage(ctx context.Context, user string, from int64, page int) ([]models.ListeningEvent, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	resp, err := f.source.GetRecentTracks(ctx, PageRequest{
		User:  user,
		From:  from,
		Page:  page,
		Limit: f.pageLimit,
	})
	if err != nil {
		return nil, 0, err
	}

	totalPages, err := resp.Attr.TotalPagesInt()
	if err != nil {
		return nil, 0, err
	}
	if totalPages < 1 {
		totalPages = 1
	}

	events, err := resp.Tracks.ToEvents()
	if err != nil {
		return nil, 0, err
	}
	return events, totalPages, nil
}

// newProgress computes completion and remaining time after page of total.
// Percentage is page/total rounded to the nearest whole percent. ETA is the
// average time per page so far times the pages left, rounded to whole
// seconds and never below one second.
func newProgress(page, total int, elapsed time.Duration) Progress {
	percentage := int(math.Round(float64(page) / float64(total) * 100))

	perPage := elapsed.Seconds() / float64(page)
	etaSeconds := math.Round(perPage * float64(total-page))
	if etaSeconds < 1 {
		etaSeconds = 1
	}

	return Progress{
		Page:       page,
		TotalPages: total,
		Percentage: percentage,
		ETA:        time.Duration(etaSeconds) * time.Second,
	}
}
