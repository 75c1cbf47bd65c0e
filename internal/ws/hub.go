package ws

import (
	"encoding/json"
	"sync"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/logger"
)

// Hub fans out engine events to connected clients. Engine mutations that
// touch a user other than the caller (referral credits, withdrawal
// finalization) notify that user here instead of relying on the next poll.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

// Event is the wire envelope pushed to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
}

// NotifyBalance implements service.BalanceNotifier.
func (h *Hub) NotifyBalance(userID int64, balances map[domain.Currency]float64) {
	h.send(userID, Event{Type: "balance", Payload: balances})
}

func (h *Hub) send(userID int64, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("ws event marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- data:
		default:
			// slow client, drop the event rather than block the engine
		}
	}
}

// ConnectedUsers returns the number of users with at least one open socket.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
