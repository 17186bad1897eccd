// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblestreak/internal/config"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/models"
)

// gcDiscardRatio is the value log discard ratio passed to RunValueLogGC.
const gcDiscardRatio = 0.5

const keyPrefix = "history:"

// Errors
var (
	ErrNotFound = errors.New("history snapshot not found")
	ErrClosed   = errors.New("store is closed")
)

// Store persists fetched listening histories in BadgerDB so a restart or a
// repeated request does not walk every Last.fm page again. Snapshots expire
// after the configured TTL.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the snapshot store described by cfg.
func Open(cfg *config.StoreConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.Compression = options.Snappy
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{db: db, ttl: cfg.TTL}

	lsm, vlog := db.Size()
	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("ttl", cfg.TTL).
		Str("lsm_size", humanize.Bytes(uint64(lsm))).
		Str("vlog_size", humanize.Bytes(uint64(vlog))).
		Msg("Snapshot store opened")

	return s, nil
}

// Key returns the BadgerDB key for a user's history window. Last.fm
// usernames are case-insensitive, so the user part is lowercased.
func Key(user string, from int64) []byte {
	return []byte(keyPrefix + strings.ToLower(user) + ":" + strconv.FormatInt(from, 10))
}

// Get returns the stored history for user and from, or ErrNotFound.
func (s *Store) Get(ctx context.Context, user string, from int64) (*models.ListeningHistory, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var history models.ListeningHistory
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(Key(user, from))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &history)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		metrics.RecordStoreOperation("get", "miss")
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreOperation("get", "error")
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	metrics.RecordStoreOperation("get", "hit")
	return &history, nil
}

// Put stores history under its user and window, replacing any earlier
// snapshot and restarting its TTL.
func (s *Store) Put(ctx context.Context, history *models.ListeningHistory) error {
	if history == nil {
		return errors.New("nil history")
	}
	if err := s.check(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(history)
	if err != nil {
		metrics.RecordStoreOperation("put", "error")
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(Key(history.User, history.From), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		metrics.RecordStoreOperation("put", "error")
		return fmt.Errorf("put snapshot: %w", err)
	}

	metrics.RecordStoreOperation("put", "ok")
	logging.Ctx(ctx).Debug().
		Str("user", history.User).
		Int64("from", history.From).
		Int("events", len(history.Events)).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("Snapshot stored")
	return nil
}

// Delete removes a snapshot. Deleting a missing snapshot is not an error.
func (s *Store) Delete(ctx context.Context, user string, from int64) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(Key(user, from))
	})
	if err != nil {
		metrics.RecordStoreOperation("delete", "error")
		return fmt.Errorf("delete snapshot: %w", err)
	}
	metrics.RecordStoreOperation("delete", "ok")
	return nil
}

// RunGC reclaims value log space until BadgerDB reports nothing left to
// rewrite. In-memory stores have no value log and return immediately.
func (s *Store) RunGC() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if s.db.Opts().InMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			metrics.RecordStoreOperation("gc", "error")
			return fmt.Errorf("run GC: %w", err)
		}
	}

	metrics.RecordStoreOperation("gc", "ok")
	return nil
}

// Size returns the LSM tree and value log sizes in bytes.
func (s *Store) Size() (lsm, vlog int64) {
	return s.db.Size()
}

// Ping reports whether the store can serve reads.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close closes the database. Further calls return ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Snapshot store closed")
	return nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}
