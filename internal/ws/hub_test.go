package ws

import (
	"encoding/json"
	"testing"
)

func TestBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	a := NewClient(h, nil)
	b := NewClient(h, nil)
	h.register(a)
	h.register(b)

	h.Broadcast(Event{Type: "level_up", UserID: 7, Level: 3, TotalXP: 550})

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			var e Event
			if err := json.Unmarshal(msg, &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e.Type != "level_up" || e.UserID != 7 || e.Level != 3 {
				t.Fatalf("unexpected event: %+v", e)
			}
		default:
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestBroadcastDropsSlowClient(t *testing.T) {
	h := NewHub()
	slow := NewClient(h, nil)
	h.register(slow)

	// Fill the send buffer so the next broadcast cannot be queued.
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- []byte("{}")
	}

	h.Broadcast(Event{Type: "xp_gained", UserID: 1, XPGained: 10})

	h.mu.RLock()
	_, stillThere := h.clients[slow]
	h.mu.RUnlock()
	if stillThere {
		t.Fatal("slow client was not dropped")
	}
}

func TestUnregisterIsIdempotent(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil)
	h.register(c)
	h.unregister(c)
	h.unregister(c) // closing an already-removed client must not panic

	h.Broadcast(Event{Type: "xp_gained", UserID: 1})
}
