// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/api"
	"github.com/tomtom215/scrobblestreak/internal/cache"
	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/ingest"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/models"
	"github.com/tomtom215/scrobblestreak/internal/report"
	"github.com/tomtom215/scrobblestreak/internal/store"
	"github.com/tomtom215/scrobblestreak/internal/supervisor"
	"github.com/tomtom215/scrobblestreak/internal/supervisor/services"
)

const readHeaderTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Bool("lastfm_enabled", cfg.LastFM.Enabled).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Bool("store_enabled", cfg.Store.Enabled).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Scrobblestreak")

	reports, err := initCache(&cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create report cache")
	}
	if reports != nil {
		defer func() {
			stats := reports.GetStats()
			logging.Info().
				Int64("hits", stats.Hits).
				Int64("misses", stats.Misses).
				Float64("hit_rate", reports.HitRate()).
				Msg("Report cache closed")
			reports.Close()
		}()
	}

	st, err := initStore(&cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open history store")
	}
	if st != nil {
		defer func() {
			if err := st.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing history store")
			}
		}()
	}

	// Nil interfaces, not typed nils, switch features off in report.Service.
	var fetcher report.HistoryFetcher
	var breaker *ingest.CircuitBreakerClient
	if cfg.LastFM.Enabled {
		breaker = ingest.NewCircuitBreakerClient(ingest.NewClient(&cfg.LastFM))
		fetcher = ingest.NewFetcher(breaker, &cfg.LastFM)
		logging.Info().
			Str("base_url", logging.SanitizeURL(cfg.LastFM.BaseURL)).
			Str("api_key", logging.SanitizeToken(cfg.LastFM.APIKey)).
			Int("page_limit", cfg.LastFM.PageLimit).
			Int("max_pages", cfg.LastFM.MaxPages).
			Float64("requests_per_second", cfg.LastFM.RequestsPerSecond).
			Msg("Last.fm ingest enabled")
	} else {
		logging.Info().Msg("Last.fm ingest disabled (LASTFM_ENABLED=false); only POST /api/v1/analyze and stored histories are served")
	}

	var historyStore report.HistoryStore
	if st != nil {
		historyStore = st
	}
	reportService := report.NewService(fetcher, historyStore, reports)
	reportService.SetBuildTimeout(cfg.Server.Timeout)

	handler := api.NewHandler(reportService, cfg)
	if st != nil {
		handler.SetStore(st)
	}
	if breaker != nil {
		handler.SetBreaker(breaker)
	}
	router := api.NewRouter(handler, cfg).Setup()

	// No WriteTimeout: the WebSocket route streams for as long as a fetch
	// runs. Handler.reportContext bounds report builds instead.
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if st != nil && !cfg.Store.InMemory {
		tree.AddDataService(store.NewGCService(st, cfg.Store.GCInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Scrobblestreak stopped")
}

// initCache returns nil when the report cache is disabled.
func initCache(cfg *config.CacheConfig) (*cache.Cache[*models.StreakReport], error) {
	if !cfg.Enabled {
		logging.Info().Msg("Report cache disabled (CACHE_ENABLED=false)")
		return nil, nil
	}
	reports, err := cache.New[*models.StreakReport]("report", cfg.TTL, cfg.MaxEntries)
	if err != nil {
		return nil, err
	}
	logging.Info().Dur("ttl", cfg.TTL).Int("max_entries", cfg.MaxEntries).Msg("Report cache enabled")
	return reports, nil
}

// initStore returns nil when the history store is disabled.
func initStore(cfg *config.StoreConfig) (*store.Store, error) {
	if !cfg.Enabled {
		logging.Info().Msg("History store disabled (STORE_ENABLED=false)")
		return nil, nil
	}
	return store.Open(cfg)
}
