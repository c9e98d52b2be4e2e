package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/freeeve/cerke-arbiter/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game, seat and durable session operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID, ruleset, encoding string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListFinished(ctx context.Context) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	// AssignSides seats the players and marks the game active.
	AssignSides(ctx context.Context, gameID string, sides map[string]string) error
	// SaveSession mirrors the live session. A nil deadline clears it.
	SaveSession(ctx context.Context, gameID string, session json.RawMessage, deadline *time.Time) error
	LoadSession(ctx context.Context, gameID string) (json.RawMessage, error)
	// ListExpired returns active games whose decision deadline has passed.
	ListExpired(ctx context.Context) ([]string, error)
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// TurnRepository defines the append-only turn log.
type TurnRepository interface {
	Append(ctx context.Context, turn *model.Turn) error
	// Record appends turn and stores the session it produced in one
	// transaction.
	Record(ctx context.Context, turn *model.Turn, session json.RawMessage, deadline *time.Time) error
	ListByGame(ctx context.Context, gameID string) ([]model.Turn, error)
}

// GameCache defines live session and timer operations (Redis).
type GameCache interface {
	SetSession(ctx context.Context, gameID string, session json.RawMessage) error
	GetSession(ctx context.Context, gameID string) (json.RawMessage, error)
	SetTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTimer(ctx context.Context, gameID string) error
	DeleteGameData(ctx context.Context, gameID string) error
}
