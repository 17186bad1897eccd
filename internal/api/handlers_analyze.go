// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblestreak/internal/analysis"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/validation"
)

// analysisSourceRequest labels analyses of client-supplied batches.
const analysisSourceRequest = "request"

// Analyze runs the activity analyzer over a client-supplied batch of events.
//
// @Summary Analyze listening events
// @Description Computes streaks, missed days and activity statistics for the posted events. In-progress events are ignored.
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "Events to analyze"
// @Success 200 {object} APIResponse{data=models.AnalysisResult} "Analysis result"
// @Failure 400 {object} APIResponse "Malformed body or validation failure"
// @Failure 422 {object} APIResponse "No completed events"
// @Router /analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBodyBytes)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Invalid analyze request body")
		rw.BadRequest("Invalid request body")
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError("Validation failed", verr.Details())
		return
	}

	now := h.now()
	if req.Now != nil {
		now = time.Unix(*req.Now, 0).UTC()
	}

	start := time.Now()
	result, err := analysis.Analyze(req.Events, now)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			metrics.RecordAnalysis(analysisSourceRequest, "empty", len(req.Events), time.Since(start))
			rw.EmptyInput("No completed listening events to analyze")
			return
		}
		metrics.RecordAnalysis(analysisSourceRequest, "error", len(req.Events), time.Since(start))
		logging.Ctx(r.Context()).Error().Err(err).Msg("Analysis failed")
		rw.InternalError("Analysis failed")
		return
	}
	metrics.RecordAnalysis(analysisSourceRequest, "ok", len(req.Events), time.Since(start))

	rw.Success(result)
}
