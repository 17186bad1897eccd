// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/scrobblestreak/internal/analysis"
	"github.com/tomtom215/scrobblestreak/internal/ingest"
	"github.com/tomtom215/scrobblestreak/internal/report"
)

// sanitizeLogValue escapes control characters in client-supplied values
// before they reach the logs.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// errorResponse is an error resolved to what the client sees.
type errorResponse struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classifyReportError maps a report failure to a status, envelope code and
// client-safe message. upstream reports whether the failure came from
// Last.fm and should be logged as an external service error.
func classifyReportError(err error) (resp errorResponse, upstream bool) {
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return errorResponse{http.StatusUnprocessableEntity, ErrCodeEmptyInput, "No completed listening events to analyze"}, false

	case errors.Is(err, report.ErrIngestDisabled):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Last.fm ingest is disabled"}, false

	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Last.fm is temporarily unavailable, retry later"}, false

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errorResponse{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Request timed out"}, false
	}

	if apiErr, ok := ingest.AsAPIError(err); ok {
		if apiErr.IsNotFound() {
			return errorResponse{http.StatusNotFound, ErrCodeNotFound, apiErr.PublicMessage()}, false
		}
		return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, apiErr.PublicMessage()}, true
	}

	return errorResponse{http.StatusBadGateway, ErrCodeExternalServiceFail, ingest.ErrorMessage(err)}, true
}

// writeReportError writes the envelope for a failed report.
func writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	resp, upstream := classifyReportError(err)
	rw := NewResponseWriter(w, r)
	if upstream {
		rw.ExternalServiceError("lastfm", resp.Message, err)
		return
	}
	rw.Error(resp.Status, resp.Code, resp.Message)
}
