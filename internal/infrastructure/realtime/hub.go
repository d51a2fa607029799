package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"moments-backend/pkg/logger"
)

// Hub tracks the sockets connected to this process, keyed by user.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// Deliver queues data on every local socket of userID. A socket whose
// buffer is full is dropped.
func (h *Hub) Deliver(userID uuid.UUID, data []byte) int {
	h.mu.RLock()
	var slow []*Client
	delivered := 0
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logger.Warn("[REALTIME] Dropping slow client", map[string]interface{}{"user_id": userID.String()})
		c.conn.Close()
	}
	return delivered
}

// Publish delivers to local sockets only. Used when no broker is configured.
func (h *Hub) Publish(_ context.Context, userID uuid.UUID, evt Event) error {
	data, err := encode(evt)
	if err != nil {
		return err
	}
	h.Deliver(userID, data)
	return nil
}

// Connected returns how many sockets userID has on this process.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every socket and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Client
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		c.conn.Close()
	}
}
