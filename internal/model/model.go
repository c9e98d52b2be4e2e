package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents a two-player game and its lobby.
type Game struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatorID  string       `json:"creator_id"`
	Status     string       `json:"status"` // waiting, active, finished
	Ruleset    string       `json:"ruleset"`
	Encoding   string       `json:"encoding"`
	Winner     string       `json:"winner,omitempty"` // ia, a or draw
	CreatedAt  time.Time    `json:"created_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Players    []GamePlayer `json:"players,omitempty"`
}

// GamePlayer represents a player's seat in a game. Side is empty until the
// game starts.
type GamePlayer struct {
	GameID   string    `json:"game_id"`
	UserID   string    `json:"user_id"`
	Side     string    `json:"side,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// SideOf returns the side the user plays, or "" if they are not seated.
func (g *Game) SideOf(userID string) string {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p.Side
		}
	}
	return ""
}

// PlayerOn returns the user seated on side, or "".
func (g *Game) PlayerOn(side string) string {
	for _, p := range g.Players {
		if p.Side == side {
			return p.UserID
		}
	}
	return ""
}

// Turn is one entry of a game's append-only log: a submission, a timeout or
// a stake decision, with the random draw it triggered.
type Turn struct {
	ID         string          `json:"id"`
	GameID     string          `json:"game_id"`
	Seq        int             `json:"seq"`
	Season     string          `json:"season"`
	Side       string          `json:"side"`
	Stage      string          `json:"stage"`
	Kind       string          `json:"kind"`
	WireCode   *int64          `json:"wire_code,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CastValue  *int            `json:"cast_value,omitempty"`
	Outcome    string          `json:"outcome"`
	StateAfter json.RawMessage `json:"state_after,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
