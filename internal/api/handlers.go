// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/ingest"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/models"
	"github.com/tomtom215/scrobblestreak/internal/report"
)

// ReportService builds streak reports for Last.fm users.
type ReportService interface {
	Report(ctx context.Context, req report.Request, onProgress ingest.ProgressFunc) (*models.StreakReport, error)
	IngestEnabled() bool
}

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStatus exposes the Last.fm circuit breaker to the readiness probe.
type BreakerStatus interface {
	State() string
	IsOpen() bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, shared helpers (this file)
//   - handlers_analyze.go: POST /analyze
//   - handlers_streaks.go: per-user streak report and its WebSocket stream
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	reports   ReportService
	config    *config.Config
	store     Pinger
	breaker   BreakerStatus
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a new API handler.
//
// reports may be nil when neither Last.fm ingest nor the snapshot store is
// configured; the per-user endpoints then answer 503.
//
// Example:
//
//	handler := api.NewHandler(reportSvc, cfg)
//	handler.SetStore(st)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.Setup())
func NewHandler(reports ReportService, cfg *config.Config) *Handler {
	return &Handler{
		reports:   reports,
		config:    cfg,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// SetStore registers the snapshot store with the readiness probe.
func (h *Handler) SetStore(p Pinger) {
	h.store = p
}

// SetBreaker registers the Last.fm circuit breaker with the readiness probe.
func (h *Handler) SetBreaker(b BreakerStatus) {
	h.breaker = b
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins against
// CORS_ORIGINS. A missing Origin header is only accepted when the origins
// list contains "*", since browsers always send one.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || (origin != "" && allowedOrigin == origin) {
			return true
		}
	}

	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
	} else {
		logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	}
	return false
}

// defaultFrom is the history window start used when a request omits from.
func (h *Handler) defaultFrom() int64 {
	if h.config == nil {
		return 0
	}
	return h.config.LastFM.From
}

// reportContext bounds a report build by HTTP_TIMEOUT.
func (h *Handler) reportContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.config != nil && h.config.Server.Timeout > 0 {
		return context.WithTimeout(parent, h.config.Server.Timeout)
	}
	return context.WithCancel(parent)
}
