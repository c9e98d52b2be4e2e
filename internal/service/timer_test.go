package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
)

type recordingHandler struct {
	mu    sync.Mutex
	games []string
	err   error
}

func (h *recordingHandler) HandleTimeout(_ context.Context, gameID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.games = append(h.games, gameID)
	return h.err
}

func TestHandleExpiryActsOnTimerKeysOnly(t *testing.T) {
	h := &recordingHandler{}
	l := NewTimerListener(nil, h, newMockGameRepo())
	ctx := context.Background()

	for _, key := range []string{"game:g1:timer", "game:g1:session", "other", "game::timer"} {
		l.handleExpiry(ctx, key)
	}
	if !reflect.DeepEqual(h.games, []string{"g1"}) {
		t.Errorf("handled %v, want [g1]", h.games)
	}
}

func TestCheckExpiredHandlesPastDeadlines(t *testing.T) {
	repo := newMockGameRepo()
	ctx := context.Background()
	for _, name := range []string{"late", "early", "done"} {
		g, _ := repo.Create(ctx, name, "u", "online_alpha", "dense")
		repo.games[g.ID].Status = "active"
	}
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	repo.deadlines["game-1"] = &past
	repo.deadlines["game-2"] = &future
	repo.deadlines["game-3"] = &past
	repo.games["game-3"].Status = "finished"

	h := &recordingHandler{err: errors.New("boom")}
	NewTimerListener(nil, h, repo).checkExpired(ctx)
	if !reflect.DeepEqual(h.games, []string{"game-1"}) {
		t.Errorf("handled %v, want [game-1]", h.games)
	}
}

func TestStartStopsWithContext(t *testing.T) {
	l := NewTimerListener(nil, &recordingHandler{}, newMockGameRepo())
	l.interval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
