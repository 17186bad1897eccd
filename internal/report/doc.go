// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package report turns a Last.fm username into a streak report.
//
// Service.Report looks for a cached report, then for a stored history
// snapshot, and only then walks Last.fm through ingest.Fetcher. Whatever
// history it ends up with is passed to analysis.Analyze at the current time.
// Fresh histories are written back to the store and reports to the cache.
// Request.Refresh skips both lookups.
//
// Concurrent requests for the same user and window are collapsed with
// singleflight, so a burst of identical requests costs one Last.fm walk.
// The shared walk runs under its own build timeout, not under the context of
// the request that started it. Cached reports are keyed by the UTC date they
// were evaluated on, so a cached current streak never outlives its day.
package report
