package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// StreamHandler pushes every published tracker snapshot to WebSocket
// clients. A client that cannot keep up is disconnected.
type StreamHandler struct {
	state  StateSource
	logger *slog.Logger
}

// NewStreamHandler creates a new StreamHandler reading from state.
func NewStreamHandler(state StateSource, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{state: state, logger: logger}
}

// ServeHTTP upgrades the connection and streams snapshots until the client
// goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	snapshots, cancel := h.state.Subscribe()
	defer cancel()

	// The read side only handles control frames and notices disconnects.
	gone := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
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

	if snap, ok := h.state.Latest(); ok {
		if err := sendJSONText(conn, snap); err != nil {
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	h.logger.Debug("stream client connected", "remote", r.RemoteAddr)
	defer h.logger.Debug("stream client disconnected", "remote", r.RemoteAddr)

	for {
		select {
		case <-gone:
			return
		case snap, ok := <-snapshots:
			if !ok {
				closeWith(conn, websocket.CloseTryAgainLater, "client too slow")
				return
			}
			if err := sendJSONText(conn, snap); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
