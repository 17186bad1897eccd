// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package report

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/scrobblestreak/internal/analysis"
	"github.com/tomtom215/scrobblestreak/internal/cache"
	"github.com/tomtom215/scrobblestreak/internal/ingest"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/models"
	"github.com/tomtom215/scrobblestreak/internal/store"
)

// ErrIngestDisabled is returned when no Last.fm fetcher is configured.
var ErrIngestDisabled = errors.New("last.fm ingest is disabled")

// DefaultBuildTimeout bounds a shared report build when none is configured.
const DefaultBuildTimeout = 2 * time.Minute

// HistoryFetcher fetches a user's full listening history window.
type HistoryFetcher interface {
	Fetch(ctx context.Context, user string, from int64, onProgress ingest.ProgressFunc) (*models.ListeningHistory, error)
}

// HistoryStore persists fetched histories between requests.
type HistoryStore interface {
	Get(ctx context.Context, user string, from int64) (*models.ListeningHistory, error)
	Put(ctx context.Context, history *models.ListeningHistory) error
}

// Request selects the history window of a report.
type Request struct {
	User string
	From int64

	// Refresh skips the cache and the store and always refetches.
	Refresh bool
}

// Service builds streak reports: cache, then store, then Last.fm.
type Service struct {
	fetcher HistoryFetcher
	store   HistoryStore
	reports *cache.Cache[*models.StreakReport]
	group   singleflight.Group
	now     func() time.Time

	buildTimeout time.Duration
}

// NewService creates a report service. fetcher, st and reports may each be
// nil: without a fetcher only cached or stored histories are served, without
// st and reports every request goes to Last.fm.
func NewService(fetcher HistoryFetcher, st HistoryStore, reports *cache.Cache[*models.StreakReport]) *Service {
	return &Service{
		fetcher: fetcher,
		store:   st,
		reports: reports,
		now:     time.Now,

		buildTimeout: DefaultBuildTimeout,
	}
}

// SetBuildTimeout bounds every shared build. Non-positive values keep the
// current timeout.
func (s *Service) SetBuildTimeout(d time.Duration) {
	if d > 0 {
		s.buildTimeout = d
	}
}

// IngestEnabled reports whether the service can reach Last.fm.
func (s *Service) IngestEnabled() bool {
	return s.fetcher != nil
}

// Report returns the streak report for req.
//
// Concurrent calls for the same user and window share one fetch. onProgress
// is only called for the caller whose request performed the fetch; callers
// that joined it, and requests served from cache or store, see no progress.
//
// The shared build runs detached from ctx, bounded by the build timeout, so
// a caller that leaves early returns ctx.Err() without failing the others.
func (s *Service) Report(ctx context.Context, req Request, onProgress ingest.ProgressFunc) (*models.StreakReport, error) {
	key := flightKey(req)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		return s.build(buildCtx, req, onProgress)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		rpt, ok := res.Val.(*models.StreakReport)
		if !ok {
			return nil, fmt.Errorf("report: unexpected result type %T", res.Val)
		}
		if res.Shared {
			logging.Ctx(ctx).Debug().Str("user", req.User).Msg("Joined in-flight report")
		}
		return rpt, nil
	}
}

func (s *Service) build(ctx context.Context, req Request, onProgress ingest.ProgressFunc) (*models.StreakReport, error) {
	logger := logging.Ctx(ctx).With().Str("component", "report").Str("user", req.User).Int64("from", req.From).Logger()
	cacheKey := reportCacheKey(req.User, req.From, s.now())

	if !req.Refresh {
		if s.reports != nil {
			if cached, ok := s.reports.Get(cacheKey); ok {
				logger.Debug().Msg("Report served from cache")
				rpt := *cached
				rpt.Source = models.SourceCache
				metrics.RecordAnalysis(models.SourceCache, "ok", 0, 0)
				return &rpt, nil
			}
		}

		if s.store != nil {
			history, err := s.store.Get(ctx, req.User, req.From)
			switch {
			case err == nil:
				logger.Debug().Time("fetched_at", history.FetchedAt).Msg("History loaded from store")
				return s.analyze(logger, history, models.SourceStore, cacheKey)
			case errors.Is(err, store.ErrNotFound):
			default:
				logger.Warn().Err(err).Msg("Store read failed, fetching from Last.fm")
			}
		}
	}

	if s.fetcher == nil {
		return nil, ErrIngestDisabled
	}

	history, err := s.fetcher.Fetch(ctx, req.User, req.From, onProgress)
	if err != nil {
		metrics.RecordAnalysis(models.SourceLastFM, "error", 0, 0)
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Put(ctx, history); err != nil {
			logger.Warn().Err(err).Msg("Failed to store history snapshot")
		}
	}

	return s.analyze(logger, history, models.SourceLastFM, cacheKey)
}

func (s *Service) analyze(logger zerolog.Logger, history *models.ListeningHistory, source, cacheKey string) (*models.StreakReport, error) {
	start := time.Now()
	result, err := analysis.Analyze(history.Events, s.now())
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			metrics.RecordAnalysis(source, "empty", len(history.Events), time.Since(start))
		} else {
			metrics.RecordAnalysis(source, "error", len(history.Events), time.Since(start))
		}
		return nil, err
	}
	metrics.RecordAnalysis(source, "ok", len(history.Events), time.Since(start))

	rpt := &models.StreakReport{
		User:      history.User,
		From:      history.From,
		Source:    source,
		Truncated: history.Truncated(),
		FetchedAt: history.FetchedAt,
		Analysis:  result,
	}

	if s.reports != nil {
		s.reports.Set(cacheKey, rpt)
	}

	logger.Info().
		Str("source", source).
		Int("events", len(history.Events)).
		Int("current_streak", result.CurrentStreak).
		Int("max_streak", result.MaxStreak).
		Msg("Report built")
	return rpt, nil
}

func flightKey(req Request) string {
	return strings.ToLower(req.User) + ":" + strconv.FormatInt(req.From, 10) + ":" + strconv.FormatBool(req.Refresh)
}

// reportCacheKey scopes cached reports to the UTC date of now, since the
// current streak of a report depends on which day it was evaluated.
func reportCacheKey(user string, from int64, now time.Time) string {
	return cache.GenerateKey("streaks", map[string]interface{}{
		"user": strings.ToLower(user),
		"from": from,
		"day":  now.UTC().Format(models.DateLayout),
	})
}
