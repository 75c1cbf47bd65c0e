package ws

import (
	"encoding/json"
	"testing"

	"mining_webapp/internal/domain"
)

func newTestClient(h *Hub, userID int64) *Client {
	return &Client{UserID: userID, hub: h, send: make(chan []byte, 1)}
}

func TestHub_NotifyBalance(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.Register(c)

	h.NotifyBalance(1, map[domain.Currency]float64{domain.CurrencyCoin: 5})

	select {
	case raw := <-c.send:
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if ev.Type != "balance" {
			t.Fatalf("event type = %q, want balance", ev.Type)
		}
	default:
		t.Fatal("expected an event for user 1")
	}
}

func TestHub_NotifyOtherUser(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.Register(c)

	h.NotifyBalance(2, map[domain.Currency]float64{domain.CurrencyStar: 1})

	select {
	case <-c.send:
		t.Fatal("user 1 should not receive user 2's event")
	default:
	}
}

func TestHub_UnregisterDropsUser(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.Register(c)
	if got := h.ConnectedUsers(); got != 1 {
		t.Fatalf("connected = %d, want 1", got)
	}

	h.Unregister(c)
	if got := h.ConnectedUsers(); got != 0 {
		t.Fatalf("connected = %d, want 0", got)
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, 1)
	h.Register(c)

	// fill the buffer, then send once more; must not block
	h.NotifyBalance(1, map[domain.Currency]float64{domain.CurrencyCoin: 1})
	h.NotifyBalance(1, map[domain.Currency]float64{domain.CurrencyCoin: 2})
}
