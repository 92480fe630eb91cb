package websocket

import (
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/impoztor-backend/internal/entity"
)

const sendBuffer = 16

// Hub fans session snapshots out to the connections watching that session.
type Hub struct {
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]map[*client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "ws_hub"),
		clients: make(map[string]map[*client]struct{}),
	}
}

// Publish queues the state for every watcher of the session. A watcher that cannot
// keep up is disconnected rather than blocking the game.
func (that *Hub) Publish(sessionID string, state entity.GameState) {
	log := that.logger.With("method", "Publish", "session_id", sessionID)

	message, err := encode(actionState, state)
	if err != nil {
		log.Error("failed to encode state", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	for watcher := range that.clients[sessionID] {
		select {
		case watcher.send <- message:
		default:
			log.Warn("dropping slow websocket client")
			that.removeLocked(sessionID, watcher)
		}
	}
}

// Watchers returns the number of connections on a session.
func (that *Hub) Watchers(sessionID string) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.clients[sessionID])
}

func (that *Hub) register(sessionID string, watcher *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.clients[sessionID] == nil {
		that.clients[sessionID] = make(map[*client]struct{})
	}
	that.clients[sessionID][watcher] = struct{}{}
}

func (that *Hub) unregister(sessionID string, watcher *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeLocked(sessionID, watcher)
}

func (that *Hub) removeLocked(sessionID string, watcher *client) {
	watchers, ok := that.clients[sessionID]
	if !ok {
		return
	}

	if _, ok = watchers[watcher]; !ok {
		return
	}

	delete(watchers, watcher)
	watcher.close()

	if len(watchers) == 0 {
		delete(that.clients, sessionID)
	}
}
