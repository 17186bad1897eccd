// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package ingest

import (
	"context"
	"errors"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/scrobblestreak/internal/models/lastfm"
)

// stubSource returns canned pages or errors, one per call.
type stubSource struct {
	calls   int
	respond func(call int, req PageRequest) (*lastfm.RecentTracks, error)
}

func (s *stubSource) GetRecentTracks(_ context.Context, req PageRequest) (*lastfm.RecentTracks, error) {
	s.calls++
	return s.respond(s.calls, req)
}

func failingSource(err error) *stubSource {
	return &stubSource{respond: func(int, PageRequest) (*lastfm.RecentTracks, error) {
		return nil, err
	}}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	source := failingSource(errors.New("connection reset"))
	cbc := NewCircuitBreakerClient(source)

	if cbc.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", cbc.State())
	}

	// ReadyToTrip needs 10 requests before it considers the ratio.
	for i := 0; i < 10; i++ {
		_, _ = cbc.GetRecentTracks(context.Background(), PageRequest{User: "rj", Page: 1})
	}
	if !cbc.IsOpen() {
		t.Fatalf("state = %s after 10 straight failures, want open", cbc.State())
	}

	callsBefore := source.calls
	_, err := cbc.GetRecentTracks(context.Background(), PageRequest{User: "rj", Page: 1})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if source.calls != callsBefore {
		t.Error("open breaker should not call the source")
	}
}

func TestCircuitBreaker_DoesNotOpenBelowThreshold(t *testing.T) {
	cbc := NewCircuitBreakerClient(failingSource(errors.New("unused")))

	// 5 of 10 (50%) is below the 60% threshold.
	for i := 0; i < 10; i++ {
		_, _ = cbc.execute(func() (interface{}, error) {
			if i < 5 {
				return nil, errors.New("simulated failure")
			}
			return &lastfm.RecentTracks{}, nil
		})
	}

	if cbc.State() != "closed" {
		t.Errorf("state = %s, want closed", cbc.State())
	}
}

func TestCircuitBreaker_IgnoresUnknownUsers(t *testing.T) {
	source := failingSource(&APIError{Code: lastfm.ErrCodeInvalidParameters, Message: "User not found"})
	cbc := NewCircuitBreakerClient(source)

	for i := 0; i < 20; i++ {
		_, err := cbc.GetRecentTracks(context.Background(), PageRequest{User: "ghost", Page: 1})
		if apiErr, ok := AsAPIError(err); !ok || !apiErr.IsNotFound() {
			t.Fatalf("err = %v, want not-found APIError passed through", err)
		}
	}

	if cbc.IsOpen() {
		t.Error("unknown-user errors should not open the breaker")
	}
}

func TestCircuitBreaker_PassesResultThrough(t *testing.T) {
	want := &lastfm.RecentTracks{Attr: lastfm.PageAttr{TotalPages: "4"}}
	cbc := NewCircuitBreakerClient(&stubSource{respond: func(int, PageRequest) (*lastfm.RecentTracks, error) {
		return want, nil
	}})

	got, err := cbc.GetRecentTracks(context.Background(), PageRequest{User: "rj", Page: 1})
	if err != nil {
		t.Fatalf("GetRecentTracks: %v", err)
	}
	if got != want {
		t.Error("result not passed through")
	}
}

func TestIsBreakerSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"canceled", context.Canceled, true},
		{"wrapped canceled", errors.Join(errors.New("page 2"), context.Canceled), true},
		{"unknown user", &APIError{Code: 6}, true},
		{"deadline", context.DeadlineExceeded, false},
		{"service offline", &APIError{Code: 11}, false},
		{"transport", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBreakerSuccess(tt.err); got != tt.want {
				t.Errorf("isBreakerSuccess(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCastResult(t *testing.T) {
	if _, err := castResult[lastfm.RecentTracks]("wrong type", nil); err == nil {
		t.Error("expected type error")
	}
	sentinel := errors.New("boom")
	if _, err := castResult[lastfm.RecentTracks](nil, sentinel); !errors.Is(err, sentinel) {
		t.Errorf("err = %v, want sentinel", err)
	}
}
