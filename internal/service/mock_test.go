package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/freeeve/cerke-arbiter/internal/model"
)

type mockGameRepo struct {
	mu        sync.Mutex
	games     map[string]*model.Game
	players   map[string][]model.GamePlayer
	sessions  map[string]json.RawMessage
	deadlines map[string]*time.Time
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{
		games:     make(map[string]*model.Game),
		players:   make(map[string][]model.GamePlayer),
		sessions:  make(map[string]json.RawMessage),
		deadlines: make(map[string]*time.Time),
	}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID, ruleset, encoding string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := &model.Game{
		ID:        fmt.Sprintf("game-%d", len(m.games)+1),
		Name:      name,
		CreatorID: creatorID,
		Status:    "waiting",
		Ruleset:   ruleset,
		Encoding:  encoding,
		CreatedAt: time.Now(),
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	cp.Players = append([]model.GamePlayer(nil), m.players[id]...)
	return &cp, nil
}

func (m *mockGameRepo) list(keep func(*model.Game) bool) []model.Game {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Game
	for _, g := range m.games {
		if keep(g) {
			cp := *g
			cp.Players = append([]model.GamePlayer(nil), m.players[g.ID]...)
			result = append(result, cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (m *mockGameRepo) ListOpen(_ context.Context) ([]model.Game, error) {
	return m.list(func(g *model.Game) bool { return g.Status == "waiting" }), nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	return m.list(func(g *model.Game) bool {
		if g.CreatorID == userID {
			return true
		}
		for _, p := range m.players[g.ID] {
			if p.UserID == userID {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockGameRepo) ListFinished(_ context.Context) ([]model.Game, error) {
	return m.list(func(g *model.Game) bool { return g.Status == "finished" }), nil
}

func (m *mockGameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	return m.list(func(g *model.Game) bool { return g.Status == "active" }), nil
}

func (m *mockGameRepo) JoinGame(_ context.Context, gameID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[gameID] = append(m.players[gameID], model.GamePlayer{
		GameID:   gameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return nil
}

func (m *mockGameRepo) PlayerCount(_ context.Context, gameID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players[gameID]), nil
}

func (m *mockGameRepo) AssignSides(_ context.Context, gameID string, sides map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := m.players[gameID]
	for i := range players {
		if side, ok := sides[players[i].UserID]; ok {
			players[i].Side = side
		}
	}
	if g, ok := m.games[gameID]; ok {
		g.Status = "active"
		now := time.Now()
		g.StartedAt = &now
	}
	return nil
}

func (m *mockGameRepo) SaveSession(_ context.Context, gameID string, session json.RawMessage, deadline *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[gameID] = session
	m.deadlines[gameID] = deadline
	return nil
}

func (m *mockGameRepo) LoadSession(_ context.Context, gameID string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[gameID], nil
}

func (m *mockGameRepo) ListExpired(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, d := range m.deadlines {
		if d != nil && d.Before(time.Now()) && m.games[id] != nil && m.games[id].Status == "active" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.games[gameID]; ok {
		g.Status = "finished"
		g.Winner = winner
		now := time.Now()
		g.FinishedAt = &now
	}
	m.deadlines[gameID] = nil
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, gameID)
	delete(m.players, gameID)
	return nil
}

// mockTurnRepo implements repository.TurnRepository for testing. Record
// writes the session into games; failRecord makes the next calls fail
// without writing anything.
type mockTurnRepo struct {
	mu         sync.Mutex
	games      *mockGameRepo
	turns      map[string][]model.Turn
	failRecord int
}

func newMockTurnRepo(games *mockGameRepo) *mockTurnRepo {
	return &mockTurnRepo{games: games, turns: make(map[string][]model.Turn)}
}

func (m *mockTurnRepo) Append(_ context.Context, t *model.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.turns[t.GameID] {
		if existing.Seq == t.Seq {
			return fmt.Errorf("append turn: duplicate seq %d", t.Seq)
		}
	}
	t.CreatedAt = time.Now()
	m.turns[t.GameID] = append(m.turns[t.GameID], *t)
	return nil
}

func (m *mockTurnRepo) Record(ctx context.Context, t *model.Turn, session json.RawMessage, deadline *time.Time) error {
	m.mu.Lock()
	if m.failRecord > 0 {
		m.failRecord--
		m.mu.Unlock()
		return errors.New("record turn: connection reset")
	}
	m.mu.Unlock()
	if err := m.Append(ctx, t); err != nil {
		return err
	}
	return m.games.SaveSession(ctx, t.GameID, session, deadline)
}

func (m *mockTurnRepo) ListByGame(_ context.Context, gameID string) ([]model.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Turn(nil), m.turns[gameID]...), nil
}

// mockCache implements repository.GameCache for testing.
type mockCache struct {
	mu       sync.Mutex
	sessions map[string]json.RawMessage
	timers   map[string]time.Time
}

func newMockCache() *mockCache {
	return &mockCache{
		sessions: make(map[string]json.RawMessage),
		timers:   make(map[string]time.Time),
	}
}

func (c *mockCache) SetSession(_ context.Context, gameID string, session json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[gameID] = session
	return nil
}

func (c *mockCache) GetSession(_ context.Context, gameID string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[gameID], nil
}

func (c *mockCache) SetTimer(_ context.Context, gameID string, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers[gameID] = deadline
	return nil
}

func (c *mockCache) ClearTimer(_ context.Context, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.timers, gameID)
	return nil
}

func (c *mockCache) DeleteGameData(_ context.Context, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, gameID)
	delete(c.timers, gameID)
	return nil
}

func (c *mockCache) timer(gameID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.timers[gameID]
	return t, ok
}

// recordingBroadcaster keeps every event for assertions.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (b *recordingBroadcaster) BroadcastGameEvent(_ string, eventType string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, eventType)
	b.data = append(b.data, data)
}

// last returns the payload of the latest event of the given type.
func (b *recordingBroadcaster) last(eventType string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i] == eventType {
			m, _ := b.data[i].(map[string]any)
			return m
		}
	}
	return nil
}

func (b *recordingBroadcaster) count(eventType string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e == eventType {
			n++
		}
	}
	return n
}

// scriptedRNG returns its values in order, then repeats the last one.
type scriptedRNG struct {
	mu     sync.Mutex
	values []float64
	pos    int
}

func (r *scriptedRNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case len(r.values) == 0:
		return 0
	case r.pos < len(r.values):
		v := r.values[r.pos]
		r.pos++
		return v
	}
	return r.values[len(r.values)-1]
}

func (r *scriptedRNG) push(values ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, values...)
}
