package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// snapshot is pushed on connect and after every list mutation.
type snapshot struct {
	Attempts []domain.CheckAttempt `json:"attempts"`
	State    check.Session         `json:"state"`
}

func newUpgrader(allowed []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 || slices.Contains(allowed, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

func (s *Server) snapshot(ctx context.Context) (snapshot, error) {
	all, err := s.Checks.Attempts(ctx)
	if err != nil {
		return snapshot{}, err
	}
	if all == nil {
		all = []domain.CheckAttempt{}
	}
	return snapshot{Attempts: all, State: s.Checks.State()}, nil
}

func (s *Server) handleStream(upgrader *websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.Logger.Warn("ws_upgrade_failed", zap.Error(err))
			return
		}
		defer conn.Close()

		events, cancel := s.Checks.Subscribe(16)
		defer cancel()

		// Reader: handles pongs and notices when the client goes away.
		gone := make(chan struct{})
		conn.SetReadLimit(maxMessageSize)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		push := func() bool {
			snap, err := s.snapshot(r.Context())
			if err != nil {
				s.Logger.Warn("ws_snapshot_failed", zap.Error(err))
				return false
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				s.Logger.Debug("ws_write_failed", zap.Error(err))
				return false
			}
			return true
		}

		if !push() {
			return
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-gone:
				return
			case _, ok := <-events:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
						time.Now().Add(writeWait))
					return
				}
				// Coalesce a burst of events into one snapshot.
				drain(events)
				if !push() {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func drain(events <-chan domain.CheckAttempt) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
