// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

// Package lastfm provides data models for the Last.fm user.getrecenttracks API.
//
// Only the fields the streak analysis needs are modelled, plus the display
// fields (name, artist, album) that help when logging a malformed track.
//
// Wire quirks handled here:
//   - Numbers in @attr and date.uts arrive as strings.
//   - recenttracks.track is an object instead of an array when a page holds
//     a single track (see TrackList).
//   - The currently playing track is flagged by @attr.nowplaying="true" and
//     has no date.
//   - Errors come back as {"error": <code>, "message": "..."}.
package lastfm
