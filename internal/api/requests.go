// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/scrobblestreak/internal/models"
	"github.com/tomtom215/scrobblestreak/internal/validation"
)

// maxAnalyzeBodyBytes bounds the POST /analyze request body.
const maxAnalyzeBodyBytes = 64 << 20

// AnalyzeRequest is the body of POST /api/v1/analyze.
//
// Fields:
//   - Events: the listening events to analyze (required, may not be empty)
//   - Now: Unix seconds used as "today"; server time when omitted
type AnalyzeRequest struct {
	Events []models.ListeningEvent `json:"events" validate:"required,max=1000000"`
	Now    *int64                  `json:"now,omitempty" validate:"omitempty,gte=0"`
}

// StreaksRequest holds the path and query parameters of the per-user
// streak endpoints.
//
// Fields:
//   - Username: Last.fm username from the path
//   - From: lower bound of the history window in Unix seconds
//   - Refresh: bypass the cache and the snapshot store
type StreaksRequest struct {
	Username string `query:"username" validate:"required,lastfm_username"`
	From     int64  `query:"from" validate:"gte=0"`
	Refresh  bool   `query:"refresh"`
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	param string
	value string
}

func (e *paramError) Error() string {
	return "invalid value for " + e.param + ": " + e.value
}

// parseStreaksRequest reads the streak request from the route and query
// string, defaulting from to defaultFrom. It returns a *paramError for
// unparseable values and a *validation.RequestValidationError for values
// that parse but break a rule.
func parseStreaksRequest(r *http.Request, defaultFrom int64) (*StreaksRequest, error) {
	req := &StreaksRequest{
		Username: chi.URLParam(r, "username"),
		From:     defaultFrom,
	}

	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &paramError{param: "from", value: raw}
		}
		req.From = from
	}
	if raw := strings.TrimSpace(q.Get("refresh")); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &paramError{param: "refresh", value: raw}
		}
		req.Refresh = refresh
	}

	if verr := validation.ValidateStruct(req); verr != nil {
		return nil, verr
	}
	return req, nil
}
