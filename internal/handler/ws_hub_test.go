package handler

import (
	"encoding/json"
	"sync"
	"testing"
)

func newTestConn(userID string) *WSConn {
	return &WSConn{userID: userID, send: make(chan []byte, 16)}
}

// drain returns the event types queued for c.
func drain(t *testing.T, c *WSConn) []string {
	t.Helper()
	var types []string
	for {
		select {
		case msg := <-c.send:
			var ev WSEvent
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("bad frame %s: %v", msg, err)
			}
			types = append(types, ev.Type+"@"+ev.GameID)
		default:
			return types
		}
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")

	hub.Register(c)
	if hub.ConnectionCount() != 1 {
		t.Errorf("expected 1 connection, got %d", hub.ConnectionCount())
	}
	hub.Unregister(c)
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections, got %d", hub.ConnectionCount())
	}
	if _, open := <-c.send; open {
		t.Error("unregister should close the send channel")
	}
}

func TestHubRoutesGameEvents(t *testing.T) {
	hub := NewHub()
	ia := newTestConn("player-ia")
	a := newTestConn("player-a")
	spectator := newTestConn("spectator")
	elsewhere := newTestConn("other-game")
	for _, c := range []*WSConn{ia, a, spectator, elsewhere} {
		hub.Register(c)
		defer hub.Unregister(c)
	}
	hub.Subscribe(ia, "g1")
	hub.Subscribe(a, "g1")
	hub.Subscribe(spectator, "g1")
	hub.Subscribe(spectator, "g2")
	hub.Subscribe(elsewhere, "g2")

	hub.BroadcastGameEvent("g1", EventTurnPlayed, map[string]any{"seq": 3, "outcome": "turn_passes"})
	hub.BroadcastGameEvent("g2", EventGameStarted, map[string]any{"to_act": "a"})
	hub.Unsubscribe(a, "g1")
	hub.BroadcastGameEvent("g1", EventGameEnded, map[string]any{"winner": "ia"})

	tests := []struct {
		name string
		conn *WSConn
		want []string
	}{
		{"ia", ia, []string{"turn_played@g1", "game_ended@g1"}},
		{"a unsubscribed", a, []string{"turn_played@g1"}},
		{"spectator of both", spectator, []string{"turn_played@g1", "game_started@g2", "game_ended@g1"}},
		{"other game", elsewhere, []string{"game_started@g2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(t, tt.conn)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
	if n := hub.GameSubscriberCount("g1"); n != 2 {
		t.Errorf("expected 2 subscribers on g1, got %d", n)
	}
}

func TestHubSubscribeRequiresRegistration(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	if hub.Subscribe(c, "game-1") {
		t.Error("an unregistered connection cannot subscribe")
	}
	hub.Register(c)
	hub.Unregister(c)
	hub.Unregister(c)
	if hub.Subscribe(c, "game-1") || hub.GameSubscriberCount("game-1") != 0 {
		t.Error("a closed connection cannot subscribe")
	}
}

func TestHubDropsEventsForFullBuffers(t *testing.T) {
	hub := NewHub()
	slow := &WSConn{userID: "slow", send: make(chan []byte, 1)}
	fast := newTestConn("fast")
	for _, c := range []*WSConn{slow, fast} {
		hub.Register(c)
		defer hub.Unregister(c)
		hub.Subscribe(c, "game-1")
	}

	for range 3 {
		hub.BroadcastGameEvent("game-1", EventTurnPlayed, nil)
	}
	if len(slow.send) != 1 {
		t.Errorf("expected one queued event for the slow reader, got %d", len(slow.send))
	}
	if len(fast.send) != 3 {
		t.Errorf("a slow reader must not hold back others, got %d events", len(fast.send))
	}
}

func TestHubUnregisterCleansUpSubscriptions(t *testing.T) {
	hub := NewHub()
	c := newTestConn("user-1")
	hub.Register(c)
	hub.Subscribe(c, "game-1")
	hub.Subscribe(c, "game-2")

	hub.Unregister(c)
	for _, g := range []string{"game-1", "game-2"} {
		if n := hub.GameSubscriberCount(g); n != 0 {
			t.Errorf("%s: expected 0 subscribers after unregister, got %d", g, n)
		}
	}
	// Broadcasting to a game nobody watches is a no-op.
	hub.BroadcastGameEvent("game-1", EventGameEnded, nil)
}

func TestHubConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			c := newTestConn("user")
			hub.Register(c)
			hub.Subscribe(c, "game-1")
			hub.BroadcastGameEvent("game-1", EventTurnPlayed, nil)
			hub.Unsubscribe(c, "game-1")
			hub.Unregister(c)
		})
	}
	wg.Wait()
	if hub.ConnectionCount() != 0 {
		t.Errorf("expected 0 connections after concurrent test, got %d", hub.ConnectionCount())
	}
}
