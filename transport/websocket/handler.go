package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/impoztor-backend/internal/apperror"
	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type stateSource interface {
	State(ctx context.Context, id string) (entity.GameState, error)
}

type client struct {
	send      chan []byte
	closeOnce sync.Once
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.send)
	})
}

type Handler struct {
	logger   *slog.Logger
	hub      *Hub
	game     stateSource
	upgrader websocket.Upgrader
}

// NewHandler serves GET /ws?session=<id>. The front-end is served from the same
// device, so any origin is accepted.
func NewHandler(logger *slog.Logger, hub *Hub, game stateSource) *Handler {
	return &Handler{
		logger: logger.With("component", "ws_handler"),
		hub:    hub,
		game:   game,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (that *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	state, err := that.game.State(r.Context(), sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to load session", "session_id", sessionID, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", "error", err)
		return
	}

	watcher := &client{send: make(chan []byte, sendBuffer)}

	initial, err := encode(actionState, state)
	if err != nil {
		log.Error("failed to encode state", "error", err)
		_ = conn.Close()
		return
	}
	watcher.send <- initial

	that.hub.register(sessionID, watcher)
	log.Info("WebSocket connection established", "session_id", sessionID)

	go that.writeLoop(conn, watcher)
	that.readLoop(conn)

	that.hub.unregister(sessionID, watcher)
	log.Info("WebSocket connection closed", "session_id", sessionID)
}

// readLoop discards client messages; the socket only pushes state. It returns when
// the peer goes away or stops answering pings.
func (that *Handler) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (that *Handler) writeLoop(conn *websocket.Conn, watcher *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-watcher.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
