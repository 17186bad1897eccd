// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/models/lastfm"
)

const (
	methodRecentTracks = "user.getrecenttracks"

	// maxErrorBodySize limits how much of an error body is read for diagnostics.
	maxErrorBodySize = 64 * 1024

	// maxPageBodySize bounds one page of recent tracks. 200 tracks with full
	// image blocks is well under 1MB.
	maxPageBodySize = 8 << 20
)

// readBodyForError reads at most 64KB of r for error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// PageRequest identifies one page of a user's recent tracks.
type PageRequest struct {
	User  string
	From  int64 // Unix seconds, inclusive lower bound
	Page  int   // 1-based
	Limit int   // tracks per page, at most 200
}

// RecentTracksSource fetches one page of recent tracks. Client and
// CircuitBreakerClient implement it.
type RecentTracksSource interface {
	GetRecentTracks(ctx context.Context, req PageRequest) (*lastfm.RecentTracks, error)
}

// Client calls the Last.fm web service.
//
// Requests are paced by a token bucket (LASTFM_REQUESTS_PER_SECOND,
// LASTFM_BURST) shared by every caller of the client, so concurrent ingests
// for different users stay within the API key's allowance together.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Last.fm client from configuration.
func NewClient(cfg *config.LastFMConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// pageEnvelope decodes either a recent-tracks page or an error body; Last.fm
// sometimes returns the latter with status 200.
type pageEnvelope struct {
	lastfm.RecentTracksResponse
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// GetRecentTracks fetches one page of req.User's scrobbles.
//
// Errors:
//   - *APIError when Last.fm answers with an error body
//   - context errors when ctx ends while waiting for the rate limiter
//   - wrapped transport, status or decode errors otherwise
func (c *Client) GetRecentTracks(ctx context.Context, req PageRequest) (*lastfm.RecentTracks, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	start := time.Now()
	page, errType, err := c.fetchPage(ctx, req)
	metrics.RecordLastFMPage(time.Since(start), errType)

	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("user", req.User).
			Int("page", req.Page).
			Str("error_type", errType).
			Msg("Last.fm page request failed")
		return nil, err
	}
	return page, nil
}

func (c *Client) fetchPage(ctx context.Context, req PageRequest) (*lastfm.RecentTracks, string, error) {
	reqURL, err := c.buildURL(req)
	if err != nil {
		return nil, "transport", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, "transport", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			// url.Error embeds the request URL, which carries the API key
			urlErr.URL = logging.SanitizeURL(urlErr.URL)
		}
		return nil, "transport", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		var apiErr lastfm.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Code != 0 {
			return nil, "api", &APIError{Code: apiErr.Code, Message: apiErr.Message, HTTPStatus: resp.StatusCode}
		}
		return nil, "http", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope pageEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPageBodySize)).Decode(&envelope); err != nil {
		return nil, "decode", fmt.Errorf("decode recent tracks: %w", err)
	}
	if envelope.Error != 0 {
		return nil, "api", &APIError{Code: envelope.Error, Message: envelope.Message, HTTPStatus: resp.StatusCode}
	}

	return &envelope.RecentTracks, "", nil
}

func (c *Client) buildURL(req PageRequest) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Last.fm base URL: %w", err)
	}

	params := url.Values{}
	params.Set("method", methodRecentTracks)
	params.Set("user", req.User)
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("page", strconv.Itoa(req.Page))
	if req.From > 0 {
		params.Set("from", strconv.FormatInt(req.From, 10))
	}

	base.RawQuery = params.Encode()
	return base.String(), nil
}
