package server

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/metrics"
	"github.com/ziadkadry99/docviewer/internal/viewer"
)

const writeWait = 10 * time.Second

// liveRequest is the incoming WebSocket message format.
type liveRequest struct {
	Type string `json:"type"` // "select"
	ID   string `json:"id"`
}

// liveEvent is the outgoing WebSocket message format.
type liveEvent struct {
	Type        string        `json:"type"` // "state" or "error"
	SessionID   string        `json:"session_id"`
	View        *viewer.View  `json:"view,omitempty"`
	Nav         template.HTML `json:"nav,omitempty"`
	Description template.HTML `json:"description,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// session is one connected live viewer. Writes are serialized because the
// load completion and the read loop both push state.
type session struct {
	id     string
	conn   *websocket.Conn
	viewer *viewer.Viewer
	logger zerolog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		sess.writeMu.Lock()
		defer sess.writeMu.Unlock()
		sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
		sess.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		sess.conn.Close()
	})
}

func (sess *session) write(ev liveEvent) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	sess.writeLocked(ev)
}

func (sess *session) writeLocked(ev liveEvent) {
	ev.SessionID = sess.id
	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteJSON(ev); err != nil {
		sess.logger.Debug().Err(err).Msg("live session write")
	}
}

func (sess *session) sendError(message string) {
	sess.write(liveEvent{Type: "error", Message: message})
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

// checkOrigin accepts same-host pages and the configured CORS origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// pushState sends the latest state. It re-reads the viewer under the write
// lock so the last message on the wire is never older than the viewer.
func (s *Server) pushState(sess *session) {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	view := sess.viewer.Render()
	navHTML, err := s.navigator.Render(view)
	if err != nil {
		sess.writeLocked(liveEvent{Type: "error", Message: err.Error()})
		return
	}
	ev := liveEvent{Type: "state", View: &view, Nav: navHTML}
	if entry, ok := view.Selected(); ok && entry.Description != "" {
		if desc, err := s.markdown.Render([]byte(entry.Description)); err == nil {
			ev.Description = desc
		}
	}
	sess.writeLocked(ev)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("live session upgrade")
		return
	}

	sess := &session{id: uuid.New().String(), conn: conn}
	sess.logger = s.logger.With().Str("session_id", sess.id).Logger()
	sess.viewer = s.newViewer(r, viewer.WithListener(func(viewer.State) { s.pushState(sess) }))

	s.sessionsMu.Lock()
	s.sessions[sess.id] = sess
	s.sessionsMu.Unlock()
	metrics.LiveSessions.Inc()
	sess.logger.Debug().Msg("live session opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		sess.viewer.Unmount()
		s.sessionsMu.Lock()
		delete(s.sessions, sess.id)
		s.sessionsMu.Unlock()
		metrics.LiveSessions.Dec()
		sess.close()
		sess.logger.Debug().Msg("live session closed")
	}()

	// The initial state goes out before the load can complete.
	s.pushState(sess)
	if _, err := sess.viewer.Mount(ctx, r.URL.Query()); err != nil {
		sess.sendError(err.Error())
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.logger.Warn().Err(err).Msg("live session read")
			}
			return
		}

		var req liveRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			sess.sendError("invalid message format")
			continue
		}

		switch req.Type {
		case "select":
			if err := sess.viewer.OnSelectionChanged(req.ID); err != nil {
				sess.sendError(err.Error())
				continue
			}
			metrics.SelectionChanges.Inc()
		default:
			sess.sendError("unknown message type: " + req.Type)
		}
	}
}
