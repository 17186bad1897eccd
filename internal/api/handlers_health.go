// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the readiness probe payload.
type HealthStatus struct {
	Status         string  `json:"status"`
	IngestEnabled  bool    `json:"ingest_enabled"`
	StoreEnabled   bool    `json:"store_enabled"`
	StoreConnected bool    `json:"store_connected"`
	LastFMCircuit  string  `json:"lastfm_circuit,omitempty"`
	Uptime         float64 `json:"uptime"`
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if the service is ready to handle traffic
//
// The snapshot store must answer when it is enabled. An open Last.fm
// circuit is reported but does not make the service unready: POST /analyze
// and stored snapshots still work.
//
// @Summary Readiness probe
// @Description Returns 200 OK when the snapshot store (if enabled) is reachable, 503 otherwise.
// @Tags Health
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Service is ready"
// @Failure 503 {object} APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:        "ready",
		IngestEnabled: h.reports != nil && h.reports.IngestEnabled(),
		StoreEnabled:  h.store != nil,
		Uptime:        time.Since(h.startTime).Seconds(),
	}

	if h.store != nil {
		status.StoreConnected = h.store.Ping(r.Context()) == nil
	}
	if h.breaker != nil {
		status.LastFMCircuit = h.breaker.State()
	}

	rw := NewResponseWriter(w, r)
	if status.StoreEnabled && !status.StoreConnected {
		status.Status = "not_ready"
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Snapshot store unavailable", status)
		return
	}
	rw.Success(status)
}
