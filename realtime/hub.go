package realtime

import (
	"errors"
	"sync"
)

// ErrNotConnected is returned when no live connection exists for a user.
var ErrNotConnected = errors.New("user has no live connection")

// Hub maintains the set of active clients. Each user holds at most one live
// connection: registering a new session evicts the previous one.
type Hub struct {
	mu     sync.RWMutex
	byUser map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[string]*Client),
	}
}

// Register adds a client, evicting any prior connection for the same user.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	prev := h.byUser[c.UserID]
	h.byUser[c.UserID] = c
	c.hub = h
	h.mu.Unlock()

	if prev != nil && prev != c {
		prev.hub = nil // already replaced; eviction must not unregister the new client
		prev.Close()
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byUser[c.UserID] == c {
		delete(h.byUser, c.UserID)
	}
}

// Current returns the live client for a user, or nil. Connection handlers
// use it to tell an eviction apart from a real disconnect.
func (h *Hub) Current(userID string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byUser[userID]
}

// SendToUser queues data for the user's live connection. A full send buffer
// drops the frame rather than blocking the pipeline.
func (h *Hub) SendToUser(userID string, data []byte) error {
	h.mu.RLock()
	c := h.byUser[userID]
	h.mu.RUnlock()

	if c == nil {
		return ErrNotConnected
	}
	select {
	case c.Send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Broadcast queues data for every connected client.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byUser))
	for _, c := range h.byUser {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}
