// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package cache provides a typed, bounded in-memory cache with TTL expiry.

The report service keeps finished streak reports here so repeated requests
for the same user and window skip both the snapshot store and Last.fm.

# Overview

  - Generic over the value type: Cache[*models.StreakReport]
  - Backed by dgraph-io/ristretto/v2 with a TinyLFU admission policy
  - Bounded by entry count (CACHE_MAX_ENTRIES); every entry costs 1
  - Per-entry TTL (CACHE_TTL by default, SetWithTTL to override)
  - Hit and miss counters exported as cache_hits_total / cache_misses_total

# Usage

	reports, err := cache.New[*models.StreakReport]("report", cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if err != nil {
	    return err
	}
	defer reports.Close()

	key := cache.GenerateKey("report", struct{ User string; From int64 }{"rj", 1735668000})
	if r, ok := reports.Get(key); ok {
	    return r
	}

# Consistency

Ristretto buffers writes. Set and Delete wait for the buffer to drain, so a
subsequent Get observes them. The admission policy may still reject a write
when the cache is full; SetWithTTL reports that.

# Keys

GenerateKey hashes the JSON encoding of its parameters with SHA-256 and keeps
the first 16 bytes, giving fixed-length keys regardless of input size.
*/
package cache
