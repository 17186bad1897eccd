// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package ingest

import (
	"errors"
	"fmt"

	"github.com/tomtom215/scrobblestreak/internal/models/lastfm"
)

// DefaultErrorMessage is shown to clients when Last.fm fails without saying why.
const DefaultErrorMessage = "failed to fetch Last.fm data"

// APIError is an error reported by Last.fm in its {"error":N,"message":"..."} body.
type APIError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("last.fm error %d: %s", e.Code, e.PublicMessage())
}

// PublicMessage is the upstream message, or DefaultErrorMessage when Last.fm sent none.
func (e *APIError) PublicMessage() string {
	if e.Message == "" {
		return DefaultErrorMessage
	}
	return e.Message
}

// IsNotFound reports whether Last.fm rejected the username. The API uses
// code 6 (invalid parameters) for unknown users.
func (e *APIError) IsNotFound() bool {
	return e.Code == lastfm.ErrCodeInvalidParameters
}

// IsTemporary reports whether retrying later may succeed.
func (e *APIError) IsTemporary() bool {
	switch e.Code {
	case lastfm.ErrCodeOperationFailed,
		lastfm.ErrCodeServiceOffline,
		lastfm.ErrCodeTemporaryError,
		lastfm.ErrCodeRateLimitExceeded:
		return true
	}
	return false
}

// AsAPIError unwraps err to an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ErrorMessage returns the message to surface for a failed ingest: the
// Last.fm message when there is one, otherwise DefaultErrorMessage.
func ErrorMessage(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.PublicMessage()
	}
	return DefaultErrorMessage
}
