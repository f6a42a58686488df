// Package ws pushes progression events (level-ups, XP gains) to connected
// clients so the leaderboard screen updates without polling. The hub is a
// flat broadcast: every event goes to every connected client.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/sudosnarky/lifequest-app/internal/logger"
)

// Event is a progression notification pushed to all clients.
type Event struct {
	Type     string `json:"type"` // "xp_gained" or "level_up"
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Level    int    `json:"level"`
	TotalXP  int64  `json:"total_xp"`
	XPGained int64  `json:"xp_gained,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to every connected client. Slow clients that
// cannot keep up are dropped rather than blocking the caller.
func (h *Hub) Broadcast(e Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		logger.Error("ws: marshal event failed", "error", err)
		return
	}

	h.mu.RLock()
	var stale []*Client
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.unregister(c)
	}
}
