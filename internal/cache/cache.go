// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblestreak/internal/metrics"
)

// DefaultMaxEntries bounds a cache created with maxEntries <= 0.
const DefaultMaxEntries = 10000

// Cache is a thread-safe in-memory cache with a per-entry TTL and a bound on
// the number of entries, backed by ristretto. Every entry costs 1, so the
// bound is an entry count.
//
// Ristretto applies writes asynchronously; Set waits for the write to land so
// a Get that follows a Set on the same goroutine sees it.
type Cache[V any] struct {
	name  string
	ttl   time.Duration
	store *ristretto.Cache[string, V]

	mu    sync.RWMutex
	stats Stats
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Evictions int64
}

// New creates a cache. name labels the cache_* Prometheus series.
//
// Example:
//
//	reports, err := cache.New[*models.StreakReport]("report", 10*time.Minute, 1000)
//	reports.Set(key, report)
//	if r, ok := reports.Get(key); ok {
//	    // Use cached report
//	}
func New[V any](name string, ttl time.Duration, maxEntries int) (*Cache[V], error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters:        int64(maxEntries) * 10,
		MaxCost:            int64(maxEntries),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", name, err)
	}

	c := &Cache[V]{
		name:  name,
		ttl:   ttl,
		store: store,
	}
	return c, nil
}

// Get retrieves a value. Expired entries are misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	value, ok := c.store.Get(key)

	c.mu.Lock()
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	metrics.RecordCacheLookup(c.name, ok)
	return value, ok
}

// Set stores a value with the cache's default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. It reports false when
// ristretto's admission policy dropped the write.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) bool {
	admitted := c.store.SetWithTTL(key, value, 1, ttl)
	c.store.Wait()

	if admitted {
		c.mu.Lock()
		c.stats.Sets++
		c.mu.Unlock()
	}
	return admitted
}

// Delete removes a specific cache entry by key.
func (c *Cache[V]) Delete(key string) {
	c.store.Del(key)
	c.store.Wait()

	c.mu.Lock()
	c.stats.Evictions++
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.store.Clear()
}

// GetStats returns a snapshot of current cache statistics.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Close stops ristretto's background goroutines. The cache must not be used
// afterwards.
func (c *Cache[V]) Close() {
	c.store.Close()
}

// GenerateKey creates a cache key from a prefix and parameters
func GenerateKey(prefix string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", prefix, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", prefix, hash[:16])
}
