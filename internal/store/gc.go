// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package store

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/scrobblestreak/internal/logging"
)

// GCService runs value log garbage collection on a fixed interval. It
// implements suture.Service.
type GCService struct {
	store    *Store
	interval time.Duration
}

// NewGCService creates a GC service for s.
func NewGCService(s *Store, interval time.Duration) *GCService {
	return &GCService{store: s, interval: interval}
}

// Serve runs until ctx is canceled. A failed GC pass is logged and retried
// on the next tick.
func (g *GCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	logger := logging.WithComponent("store-gc")
	logger.Info().Dur("interval", g.interval).Msg("Snapshot GC started")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Snapshot GC stopped")
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := g.store.RunGC(); err != nil {
				logger.Warn().Err(err).Msg("Snapshot GC failed")
				continue
			}
			lsm, vlog := g.store.Size()
			logger.Debug().
				Dur("duration", time.Since(start)).
				Str("lsm_size", humanize.Bytes(uint64(lsm))).
				Str("vlog_size", humanize.Bytes(uint64(vlog))).
				Msg("Snapshot GC completed")
		}
	}
}

// String implements fmt.Stringer for suture logging.
func (g *GCService) String() string {
	return "store-gc"
}
