// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

/*
Package store keeps ingested Last.fm listening histories in BadgerDB.

A snapshot is the full models.ListeningHistory for one user and one history
window, encoded as JSON under the key

	history:<lowercased user>:<from>

Snapshots are written with a TTL (STORE_TTL) so stale histories age out on
their own. GCService reclaims value log space on STORE_GC_INTERVAL and is run
under the supervisor tree.

Usage:

	st, err := store.Open(&cfg.Store)
	if err != nil {
	    return err
	}
	defer st.Close()

	history, err := st.Get(ctx, "rj", 0)
	if errors.Is(err, store.ErrNotFound) {
	    // fetch from Last.fm, then st.Put(ctx, history)
	}

STORE_IN_MEMORY=true runs BadgerDB without a directory, which is what the
tests use.
*/
package store
