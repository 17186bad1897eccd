// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package lastfm

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/scrobblestreak/internal/models"
)

// RecentTracksResponse is the body returned by user.getrecenttracks with format=json.
type RecentTracksResponse struct {
	RecentTracks RecentTracks `json:"recenttracks"`
}

type RecentTracks struct {
	Tracks TrackList `json:"track"`
	Attr   PageAttr  `json:"@attr"`
}

// PageAttr carries the pagination block. Last.fm encodes every number in it as a string.
type PageAttr struct {
	User       string `json:"user"`
	Page       string `json:"page"`
	PerPage    string `json:"perPage"`
	TotalPages string `json:"totalPages"`
	Total      string `json:"total"`
}

// TotalPagesInt parses TotalPages. An empty value means no pages.
func (a PageAttr) TotalPagesInt() (int, error) {
	return parseCount("totalPages", a.TotalPages)
}

// TotalInt parses Total, the number of scrobbles in the requested window.
func (a PageAttr) TotalInt() (int, error) {
	return parseCount("total", a.Total)
}

func parseCount(field, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s %q: negative", field, raw)
	}
	return n, nil
}

// Track is one entry of recenttracks.track.
//
// The now-playing entry carries @attr.nowplaying="true" and usually no date.
type Track struct {
	Name   string     `json:"name"`
	URL    string     `json:"url"`
	Artist TextField  `json:"artist"`
	Album  TextField  `json:"album"`
	Date   *TrackDate `json:"date,omitempty"`
	Attr   *TrackAttr `json:"@attr,omitempty"`
}

// TextField is Last.fm's {"#text": ..., "mbid": ...} wrapper.
type TextField struct {
	Text string `json:"#text"`
	MBID string `json:"mbid"`
}

// TrackDate holds the scrobble instant. UTS is Unix seconds as a string.
type TrackDate struct {
	UTS  string `json:"uts"`
	Text string `json:"#text"`
}

type TrackAttr struct {
	NowPlaying string `json:"nowplaying"`
}

// IsNowPlaying reports whether the track is currently playing.
func (t *Track) IsNowPlaying() bool {
	return t.Attr != nil && t.Attr.NowPlaying == "true"
}

// ToEvent converts the track to a ListeningEvent.
//
// A now-playing track becomes an in-progress event; its timestamp is taken from
// the date block when Last.fm includes one and is 0 otherwise. A completed
// track without a parseable date is an error.
func (t *Track) ToEvent() (models.ListeningEvent, error) {
	if t.IsNowPlaying() {
		ev := models.ListeningEvent{InProgress: true}
		if t.Date != nil {
			if ts, err := strconv.ParseInt(t.Date.UTS, 10, 64); err == nil {
				ev.Timestamp = ts
			}
		}
		return ev, nil
	}

	if t.Date == nil || t.Date.UTS == "" {
		return models.ListeningEvent{}, fmt.Errorf("track %q has no scrobble date", t.Name)
	}
	ts, err := strconv.ParseInt(t.Date.UTS, 10, 64)
	if err != nil {
		return models.ListeningEvent{}, fmt.Errorf("track %q has invalid uts %q: %w", t.Name, t.Date.UTS, err)
	}
	return models.ListeningEvent{Timestamp: ts}, nil
}

// TrackList decodes recenttracks.track, which Last.fm sends as an array
// normally but as a bare object when the page holds exactly one track.
type TrackList []Track

// UnmarshalJSON accepts an array, a single object, or null.
func (l *TrackList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var tracks []Track
		if err := json.Unmarshal(trimmed, &tracks); err != nil {
			return err
		}
		*l = tracks
	case '{':
		var track Track
		if err := json.Unmarshal(trimmed, &track); err != nil {
			return err
		}
		*l = TrackList{track}
	default:
		return fmt.Errorf("recenttracks.track: unexpected JSON starting with %q", trimmed[0])
	}
	return nil
}

// ToEvents converts every track on the page.
func (l TrackList) ToEvents() ([]models.ListeningEvent, error) {
	events := make([]models.ListeningEvent, 0, len(l))
	for i := range l {
		ev, err := l[i].ToEvent()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// ErrorResponse is the body Last.fm returns for a failed call, with either a
// 2xx or 4xx status.
//
//	{"error": 6, "message": "User not found"}
type ErrorResponse struct {
	Code    int    `json:"error"`
	Message string `json:"message"`
}

// Last.fm error codes the service reacts to.
const (
	ErrCodeInvalidParameters = 6
	ErrCodeInvalidAPIKey     = 10
	ErrCodeOperationFailed   = 8
	ErrCodeServiceOffline    = 11
	ErrCodeTemporaryError    = 16
	ErrCodeSuspendedAPIKey   = 26
	ErrCodeRateLimitExceeded = 29
)
