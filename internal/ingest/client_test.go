// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/config"
)

const testAPIKey = "0123456789abcdef0123456789abcdef"

func testLastFMConfig(baseURL string) *config.LastFMConfig {
	return &config.LastFMConfig{
		Enabled:           true,
		APIKey:            testAPIKey,
		BaseURL:           baseURL,
		PageLimit:         200,
		From:              config.DefaultFrom,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             10,
	}
}

const twoTrackPage = `{
  "recenttracks": {
    "track": [
      {"name": "Now", "artist": {"#text": "A"}, "@attr": {"nowplaying": "true"}},
      {"name": "Done", "artist": {"#text": "A"}, "date": {"uts": "1735689600", "#text": "01 Jan 2025, 00:00"}}
    ],
    "@attr": {"user": "rj", "page": "1", "perPage": "200", "totalPages": "3", "total": "401"}
  }
}`

func TestClient_GetRecentTracks(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoTrackPage))
	}))
	defer server.Close()

	client := NewClient(testLastFMConfig(server.URL + "/2.0/"))
	page, err := client.GetRecentTracks(context.Background(), PageRequest{User: "rj", From: 1735668000, Page: 2, Limit: 200})
	if err != nil {
		t.Fatalf("GetRecentTracks: %v", err)
	}

	want := map[string]string{
		"method":  "user.getrecenttracks",
		"user":    "rj",
		"api_key": testAPIKey,
		"format":  "json",
		"limit":   "200",
		"page":    "2",
		"from":    "1735668000",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(page.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(page.Tracks))
	}
	if !page.Tracks[0].IsNowPlaying() {
		t.Error("first track should be now playing")
	}
	if total, _ := page.Attr.TotalPagesInt(); total != 3 {
		t.Errorf("totalPages = %d, want 3", total)
	}
}

func TestClient_OmitsZeroFrom(t *testing.T) {
	var hasFrom bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasFrom = r.URL.Query().Has("from")
		_, _ = w.Write([]byte(twoTrackPage))
	}))
	defer server.Close()

	client := NewClient(testLastFMConfig(server.URL))
	if _, err := client.GetRecentTracks(context.Background(), PageRequest{User: "rj", Page: 1, Limit: 50}); err != nil {
		t.Fatalf("GetRecentTracks: %v", err)
	}
	if hasFrom {
		t.Error("from should be omitted when zero")
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantAPICode int
		wantMessage string
	}{
		{
			name:        "error body with status 200",
			status:      http.StatusOK,
			body:        `{"error": 6, "message": "User not found"}`,
			wantAPICode: 6,
			wantMessage: "User not found",
		},
		{
			name:        "error body with status 403",
			status:      http.StatusForbidden,
			body:        `{"error": 10, "message": "Invalid API key - You must be granted a valid key by last.fm"}`,
			wantAPICode: 10,
			wantMessage: "Invalid API key - You must be granted a valid key by last.fm",
		},
		{
			name:        "error body without message",
			status:      http.StatusServiceUnavailable,
			body:        `{"error": 11}`,
			wantAPICode: 11,
			wantMessage: DefaultErrorMessage,
		},
		{
			name:        "plain 502",
			status:      http.StatusBadGateway,
			body:        "<html>bad gateway</html>",
			wantMessage: DefaultErrorMessage,
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `{"recenttracks": {"track": 42}}`,
			wantMessage: DefaultErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(testLastFMConfig(server.URL))
			_, err := client.GetRecentTracks(context.Background(), PageRequest{User: "ghost", Page: 1, Limit: 200})
			if err == nil {
				t.Fatal("expected error")
			}

			apiErr, isAPI := AsAPIError(err)
			if tt.wantAPICode != 0 {
				if !isAPI {
					t.Fatalf("expected *APIError, got %T: %v", err, err)
				}
				if apiErr.Code != tt.wantAPICode {
					t.Errorf("Code = %d, want %d", apiErr.Code, tt.wantAPICode)
				}
				if apiErr.HTTPStatus != tt.status {
					t.Errorf("HTTPStatus = %d, want %d", apiErr.HTTPStatus, tt.status)
				}
			} else if isAPI {
				t.Errorf("unexpected *APIError: %v", apiErr)
			}

			if got := ErrorMessage(err); got != tt.wantMessage {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestClient_TransportErrorHidesAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(testLastFMConfig(baseURL))
	_, err := client.GetRecentTracks(context.Background(), PageRequest{User: "rj", Page: 1, Limit: 200})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), testAPIKey) {
		t.Errorf("error leaks API key: %v", err)
	}
}

func TestClient_RateLimiterHonorsContext(t *testing.T) {
	cfg := testLastFMConfig("http://127.0.0.1:1")
	cfg.RequestsPerSecond = 0.001
	cfg.Burst = 1
	client := NewClient(cfg)

	// Drain the single burst token.
	client.limiter.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.GetRecentTracks(ctx, PageRequest{User: "rj", Page: 1, Limit: 200})
	if err == nil {
		t.Fatal("expected limiter error")
	}
	if !strings.Contains(err.Error(), "rate limiter wait") {
		t.Errorf("error = %v, want rate limiter wait", err)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		code      int
		notFound  bool
		temporary bool
	}{
		{6, true, false},
		{10, false, false},
		{11, false, true},
		{16, false, true},
		{29, false, true},
	}

	for _, tt := range tests {
		e := &APIError{Code: tt.code}
		if e.IsNotFound() != tt.notFound {
			t.Errorf("code %d: IsNotFound = %v, want %v", tt.code, e.IsNotFound(), tt.notFound)
		}
		if e.IsTemporary() != tt.temporary {
			t.Errorf("code %d: IsTemporary = %v, want %v", tt.code, e.IsTemporary(), tt.temporary)
		}
	}

	wrapped := errors.Join(errors.New("page 3"), &APIError{Code: 6, Message: "User not found"})
	if got := ErrorMessage(wrapped); got != "User not found" {
		t.Errorf("ErrorMessage(wrapped) = %q", got)
	}
}
