// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(&config.StoreConfig{
		Enabled:    true,
		InMemory:   true,
		TTL:        time.Hour,
		GCInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testHistory(user string, from int64) *models.ListeningHistory {
	return &models.ListeningHistory{
		User: user,
		From: from,
		Events: []models.ListeningEvent{
			{Timestamp: 1700000000},
			{Timestamp: 1700086400},
			{Timestamp: 1700172800, InProgress: true},
		},
		Pages:      2,
		TotalPages: 2,
		FetchedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	want := testHistory("rj", 0)
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "rj", 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.User != want.User || got.From != want.From {
		t.Errorf("Get() = %s/%d, want %s/%d", got.User, got.From, want.User, want.From)
	}
	if len(got.Events) != 3 {
		t.Fatalf("len(Events) = %d, want 3", len(got.Events))
	}
	if !got.Events[2].InProgress {
		t.Error("InProgress flag lost in round trip")
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "nobody", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_KeyIsCaseInsensitive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testHistory("RJ", 0)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := s.Get(ctx, "rj", 0); err != nil {
		t.Errorf("Get(rj) error = %v, want snapshot stored as RJ", err)
	}
}

func TestStore_WindowsAreSeparate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testHistory("rj", 0)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_, err := s.Get(ctx, "rj", 1700000000)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(other window) error = %v, want ErrNotFound", err)
	}
}

func TestStore_PutReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testHistory("rj", 0)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	replacement := testHistory("rj", 0)
	replacement.Events = replacement.Events[:1]
	if err := s.Put(ctx, replacement); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "rj", 0)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Events) != 1 {
		t.Errorf("len(Events) = %d, want 1", len(got.Events))
	}
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, testHistory("rj", 0)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Delete(ctx, "rj", 0); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "rj", 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "rj", 0); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestStore_PutNil(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put(context.Background(), nil); err == nil {
		t.Error("Put(nil) error = nil, want error")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Get(ctx, "rj", 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
	if err := s.Put(ctx, testHistory("rj", 0)); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

func TestStore_Closed(t *testing.T) {
	s := openTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v, want nil", err)
	}

	ctx := context.Background()
	if _, err := s.Get(ctx, "rj", 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := s.RunGC(); !errors.Is(err, ErrClosed) {
		t.Errorf("RunGC() error = %v, want ErrClosed", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Ping() error = %v, want ErrClosed", err)
	}
}

func TestStore_RunGCInMemory(t *testing.T) {
	s := openTestStore(t)
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC() error = %v, want nil", err)
	}
}

func TestStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.StoreConfig{Enabled: true, Path: dir, TTL: time.Hour, GCInterval: time.Minute}

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Put(context.Background(), testHistory("rj", 0)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "rj", 0)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if len(got.Events) != 3 {
		t.Errorf("len(Events) = %d, want 3", len(got.Events))
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		user string
		from int64
		want string
	}{
		{"rj", 0, "history:rj:0"},
		{"RJ", 0, "history:rj:0"},
		{"Some_User", 1700000000, "history:some_user:1700000000"},
	}
	for _, tt := range tests {
		if got := string(Key(tt.user, tt.from)); got != tt.want {
			t.Errorf("Key(%q, %d) = %q, want %q", tt.user, tt.from, got, tt.want)
		}
	}
}

func TestGCService_StopsOnCancel(t *testing.T) {
	s := openTestStore(t)
	svc := NewGCService(s, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if svc.String() != "store-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}
