// Package memory implements the repository interfaces in process memory.
// It backs the self-play runner when no database is given, and handler
// tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/freeeve/cerke-arbiter/internal/model"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*model.User)}
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) FindByProviderID(_ context.Context, provider, providerID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderID == providerID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Upsert(_ context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, u := range r.users {
		if u.Provider == provider && u.ProviderID == providerID {
			u.DisplayName, u.AvatarURL, u.UpdatedAt = displayName, avatarURL, now
			cp := *u
			return &cp, nil
		}
	}
	u := &model.User{
		ID:          uuid.NewString(),
		Provider:    provider,
		ProviderID:  providerID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *UserRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("update display name: user %s not found", id)
	}
	u.DisplayName, u.UpdatedAt = displayName, time.Now()
	return nil
}

type gameRow struct {
	game     model.Game
	players  []model.GamePlayer
	session  json.RawMessage
	deadline *time.Time
}

// GameRepo implements repository.GameRepository.
type GameRepo struct {
	mu    sync.Mutex
	games map[string]*gameRow
	now   func() time.Time
}

func NewGameRepo() *GameRepo {
	return &GameRepo{games: make(map[string]*gameRow), now: time.Now}
}

func (r *GameRepo) snapshot(row *gameRow) model.Game {
	g := row.game
	g.Players = append([]model.GamePlayer(nil), row.players...)
	return g
}

func (r *GameRepo) Create(_ context.Context, name, creatorID, ruleset, encoding string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := &gameRow{game: model.Game{
		ID:        uuid.NewString(),
		Name:      name,
		CreatorID: creatorID,
		Status:    "waiting",
		Ruleset:   ruleset,
		Encoding:  encoding,
		CreatedAt: r.now(),
	}}
	r.games[row.game.ID] = row
	g := r.snapshot(row)
	return &g, nil
}

func (r *GameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	g := r.snapshot(row)
	return &g, nil
}

// list returns matching games, newest first.
func (r *GameRepo) list(keep func(*gameRow) bool) []model.Game {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Game
	for _, row := range r.games {
		if keep(row) {
			out = append(out, r.snapshot(row))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *GameRepo) ListOpen(_ context.Context) ([]model.Game, error) {
	return r.list(func(row *gameRow) bool { return row.game.Status == "waiting" }), nil
}

func (r *GameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	return r.list(func(row *gameRow) bool {
		if row.game.CreatorID == userID {
			return true
		}
		for _, p := range row.players {
			if p.UserID == userID {
				return true
			}
		}
		return false
	}), nil
}

func (r *GameRepo) ListFinished(_ context.Context) ([]model.Game, error) {
	return r.list(func(row *gameRow) bool { return row.game.Status == "finished" }), nil
}

func (r *GameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	return r.list(func(row *gameRow) bool { return row.game.Status == "active" }), nil
}

func (r *GameRepo) JoinGame(_ context.Context, gameID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("join game: game %s not found", gameID)
	}
	for _, p := range row.players {
		if p.UserID == userID {
			return nil
		}
	}
	row.players = append(row.players, model.GamePlayer{GameID: gameID, UserID: userID, JoinedAt: r.now()})
	return nil
}

func (r *GameRepo) PlayerCount(_ context.Context, gameID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.games[gameID]; ok {
		return len(row.players), nil
	}
	return 0, nil
}

func (r *GameRepo) AssignSides(_ context.Context, gameID string, sides map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("assign sides: game %s not found", gameID)
	}
	for i := range row.players {
		if side, ok := sides[row.players[i].UserID]; ok {
			row.players[i].Side = side
		}
	}
	now := r.now()
	row.game.Status, row.game.StartedAt = "active", &now
	return nil
}

func (r *GameRepo) SaveSession(_ context.Context, gameID string, session json.RawMessage, deadline *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("save session: game %s not found", gameID)
	}
	row.session = append(json.RawMessage(nil), session...)
	row.deadline = deadline
	return nil
}

func (r *GameRepo) LoadSession(_ context.Context, gameID string) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.games[gameID]; ok && row.session != nil {
		return append(json.RawMessage(nil), row.session...), nil
	}
	return nil, nil
}

func (r *GameRepo) ListExpired(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var ids []string
	for id, row := range r.games {
		if row.game.Status == "active" && row.deadline != nil && !row.deadline.After(now) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *GameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.games[gameID]
	if !ok {
		return fmt.Errorf("set finished: game %s not found", gameID)
	}
	now := r.now()
	row.game.Status, row.game.Winner, row.game.FinishedAt = "finished", winner, &now
	row.deadline = nil
	return nil
}

func (r *GameRepo) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameID)
	return nil
}

// TurnRepo implements repository.TurnRepository. Record writes sessions
// through games.
type TurnRepo struct {
	mu    sync.Mutex
	games *GameRepo
	turns map[string][]model.Turn
}

func NewTurnRepo(games *GameRepo) *TurnRepo {
	return &TurnRepo{games: games, turns: make(map[string][]model.Turn)}
}

func (r *TurnRepo) Append(_ context.Context, t *model.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(t)
}

// Record stores the session first; the turn is only appended once the
// session write succeeded.
func (r *TurnRepo) Record(ctx context.Context, t *model.Turn, session json.RawMessage, deadline *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkSeq(t); err != nil {
		return err
	}
	if err := r.games.SaveSession(ctx, t.GameID, session, deadline); err != nil {
		return err
	}
	return r.appendLocked(t)
}

func (r *TurnRepo) checkSeq(t *model.Turn) error {
	for _, existing := range r.turns[t.GameID] {
		if existing.Seq == t.Seq {
			return fmt.Errorf("append turn: game %s already has seq %d", t.GameID, t.Seq)
		}
	}
	return nil
}

func (r *TurnRepo) appendLocked(t *model.Turn) error {
	if err := r.checkSeq(t); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now()
	r.turns[t.GameID] = append(r.turns[t.GameID], *t)
	return nil
}

func (r *TurnRepo) ListByGame(_ context.Context, gameID string) ([]model.Turn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Turn(nil), r.turns[gameID]...), nil
}

// Cache implements repository.GameCache. Timers are stored but never fire;
// the deadline poller covers expiry.
type Cache struct {
	mu       sync.Mutex
	sessions map[string]json.RawMessage
	timers   map[string]time.Time
}

func NewCache() *Cache {
	return &Cache{sessions: make(map[string]json.RawMessage), timers: make(map[string]time.Time)}
}

func (c *Cache) SetSession(_ context.Context, gameID string, session json.RawMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[gameID] = append(json.RawMessage(nil), session...)
	return nil
}

func (c *Cache) GetSession(_ context.Context, gameID string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[gameID], nil
}

func (c *Cache) SetTimer(_ context.Context, gameID string, deadline time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers[gameID] = deadline
	return nil
}

func (c *Cache) ClearTimer(_ context.Context, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.timers, gameID)
	return nil
}

func (c *Cache) DeleteGameData(_ context.Context, gameID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, gameID)
	delete(c.timers, gameID)
	return nil
}

// Timer returns the armed deadline of a game.
func (c *Cache) Timer(gameID string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.timers[gameID]
	return d, ok
}
