// Scrobblestreak - Listening Streak Analytics for Last.fm
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/scrobblestreak

package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/scrobblestreak/internal/ingest"
	"github.com/tomtom215/scrobblestreak/internal/logging"
	"github.com/tomtom215/scrobblestreak/internal/metrics"
	"github.com/tomtom215/scrobblestreak/internal/report"
	"github.com/tomtom215/scrobblestreak/internal/validation"
)

// Stream message types.
const (
	MessageTypeProgress = "progress"
	MessageTypeResult   = "result"
	MessageTypeError    = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// StreamMessage is one frame of the streak WebSocket stream.
type StreamMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ProgressPayload is the data of a progress message.
type ProgressPayload struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Percentage int   `json:"percentage"`
	ETASeconds int64 `json:"eta_seconds"`
}

// UserStreaks returns the streak report of a Last.fm user.
//
// @Summary Get a user's listening streaks
// @Description Fetches the user's scrobbles from Last.fm (through the report cache and snapshot store) and analyzes them at server time.
// @Tags Analysis
// @Produce json
// @Param username path string true "Last.fm username"
// @Param from query int false "History window start, Unix seconds"
// @Param refresh query bool false "Bypass cache and snapshot store"
// @Success 200 {object} APIResponse{data=models.StreakReport} "Streak report"
// @Failure 400 {object} APIResponse "Invalid parameters"
// @Failure 404 {object} APIResponse "Unknown Last.fm user"
// @Failure 422 {object} APIResponse "User has no completed scrobbles in the window"
// @Failure 502 {object} APIResponse "Last.fm request failed"
// @Failure 503 {object} APIResponse "Ingest disabled or Last.fm circuit open"
// @Router /users/{username}/streaks [get]
func (h *Handler) UserStreaks(w http.ResponseWriter, r *http.Request) {
	req, ok := h.streaksRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.reportContext(r.Context())
	defer cancel()

	rpt, err := h.reports.Report(ctx, report.Request{
		User:    req.Username,
		From:    req.From,
		Refresh: req.Refresh,
	}, nil)
	if err != nil {
		writeReportError(w, r, err)
		return
	}

	NewResponseWriter(w, r).Success(rpt)
}

// UserStreaksStream streams ingest progress over a WebSocket, then the
// report or an error, then closes the connection.
//
// @Summary Stream a user's listening streaks
// @Description Upgrades to a WebSocket that sends progress messages per fetched page followed by one result or error message.
// @Tags Analysis
// @Param username path string true "Last.fm username"
// @Param from query int false "History window start, Unix seconds"
// @Param refresh query bool false "Bypass cache and snapshot store"
// @Router /users/{username}/streaks/ws [get]
func (h *Handler) UserStreaksStream(w http.ResponseWriter, r *http.Request) {
	req, ok := h.streaksRequest(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	metrics.TrackWebSocketConnection(true)
	defer metrics.TrackWebSocketConnection(false)

	ctx, cancel := h.reportContext(r.Context())
	defer cancel()

	s := newStream(conn, cancel)
	go s.readPump()
	go s.writePump()

	rpt, err := h.reports.Report(ctx, report.Request{
		User:    req.Username,
		From:    req.From,
		Refresh: req.Refresh,
	}, func(p ingest.Progress) {
		s.trySend(StreamMessage{Type: MessageTypeProgress, Data: ProgressPayload{
			Page:       p.Page,
			TotalPages: p.TotalPages,
			Percentage: p.Percentage,
			ETASeconds: p.ETASeconds(),
		}})
	})

	if err != nil {
		resp, upstream := classifyReportError(err)
		if upstream {
			logging.Ctx(ctx).Error().Err(err).Str("service", "lastfm").Msg("External service error")
		}
		s.finish(StreamMessage{Type: MessageTypeError, Data: resp})
	} else {
		s.finish(StreamMessage{Type: MessageTypeResult, Data: rpt})
	}
	<-s.done
}

// streaksRequest parses the request and rejects it when no report service
// is configured. It writes the error response itself and reports false.
func (h *Handler) streaksRequest(w http.ResponseWriter, r *http.Request) (*StreaksRequest, bool) {
	rw := NewResponseWriter(w, r)

	if h.reports == nil {
		rw.ServiceUnavailable("Last.fm ingest is disabled")
		return nil, false
	}

	req, err := parseStreaksRequest(r, h.defaultFrom())
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			rw.ValidationError("Validation failed", verr.Details())
		} else {
			rw.BadRequest(err.Error())
		}
		return nil, false
	}
	return req, true
}

// stream owns one streak WebSocket connection. Messages are queued on out
// and written by writePump; readPump only watches for the client leaving.
type stream struct {
	conn   *websocket.Conn
	out    chan StreamMessage
	cancel context.CancelFunc
	done   chan struct{} // closed when writePump exits

	mu       sync.Mutex
	finished bool
}

func newStream(conn *websocket.Conn, cancel context.CancelFunc) *stream {
	return &stream{
		conn:   conn,
		out:    make(chan StreamMessage, sendBufferSize),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// trySend queues msg unless the buffer is full or the stream has finished.
// Progress updates are superseded by the next one, so dropping one under
// backpressure loses nothing the client needs.
func (s *stream) trySend(msg StreamMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	select {
	case s.out <- msg:
	default:
		logging.Debug().Str("type", msg.Type).Msg("WebSocket send buffer full, dropping message")
	}
}

// finish queues the final message and closes the queue. A fetch that
// outlives the handler may still report progress; it is ignored from here on.
func (s *stream) finish(msg StreamMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	select {
	case s.out <- msg:
	case <-s.done:
	}
	close(s.out)
}

// readPump discards client frames and cancels the stream when the client
// disconnects.
func (s *stream) readPump() {
	defer s.cancel()

	s.conn.SetReadLimit(maxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued messages and keepalive pings until out is
// closed, then sends a normal close frame.
func (s *stream) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.done)
		_ = s.conn.Close() // best-effort cleanup
	}()

	for {
		select {
		case msg, ok := <-s.out:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.cancel()
				return
			}

			if !ok {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				_ = s.conn.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}

			if err := s.conn.WriteJSON(msg); err != nil {
				logging.Debug().Err(err).Msg("WebSocket write failed")
				s.cancel()
				return
			}
			metrics.RecordWebSocketMessage(msg.Type)

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				s.cancel()
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		}
	}
}
