package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/freeeve/cerke-arbiter/internal/model"
	"github.com/freeeve/cerke-arbiter/internal/repository"
	"github.com/freeeve/cerke-arbiter/internal/ruleset"
	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotWaiting = errors.New("game is not in waiting status")
	ErrGameFull       = errors.New("game already has 2 players")
	ErrNotEnough      = errors.New("need exactly 2 players to start")
	ErrNotCreator     = errors.New("only the creator can do this")
	ErrGameNotActive  = errors.New("game is not active")
	ErrAlreadyJoined  = errors.New("already joined this game")
	ErrNotInGame      = errors.New("you are not in this game")
	ErrInvalidRuleset = errors.New("invalid ruleset")
	ErrInvalidEncode  = errors.New("invalid field encoding")
)

// playersPerGame is the number of seats in a game.
const playersPerGame = 2

// Rulesets resolves the rule set a game was created with.
type Rulesets interface {
	Get(name string) (ruleset.Ruleset, error)
}

// GameService handles game lifecycle operations.
type GameService struct {
	gameRepo        repository.GameRepository
	rulesets        Rulesets
	rng             RandomSource
	defaultEncoding string
}

// NewGameService creates a GameService. A nil rng selects the crypto source.
func NewGameService(gameRepo repository.GameRepository, rulesets Rulesets, rng RandomSource, defaultEncoding string) *GameService {
	if rng == nil {
		rng = DefaultRNG()
	}
	if defaultEncoding == "" {
		defaultEncoding = cerke.DenseEncoding.Name()
	}
	return &GameService{gameRepo: gameRepo, rulesets: rulesets, rng: rng, defaultEncoding: defaultEncoding}
}

// CreateGame creates a new game in "waiting" status and seats its creator.
// Empty rulesetName and encoding select the server defaults.
func (s *GameService) CreateGame(ctx context.Context, name, creatorID, rulesetName, encoding string) (*model.Game, error) {
	rs, err := s.rulesets.Get(rulesetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRuleset, err)
	}
	if encoding == "" {
		encoding = s.defaultEncoding
	}
	if _, err := cerke.EncodingByName(encoding); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncode, err)
	}

	game, err := s.gameRepo.Create(ctx, name, creatorID, rs.Name, encoding)
	if err != nil {
		return nil, err
	}
	if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, game.ID)
}

// JoinGame adds a player to a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.gameRepo.PlayerCount(ctx, gameID)
	if err != nil {
		return err
	}
	if count >= playersPerGame {
		return ErrGameFull
	}
	return s.gameRepo.JoinGame(ctx, gameID, userID)
}

// StartGame seats the two players on random sides and marks the game
// active. The opening position is drawn by TurnService.InitializeGame.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "waiting" {
		return nil, ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(game.Players) != playersPerGame {
		return nil, ErrNotEnough
	}

	sides := [playersPerGame]cerke.Side{cerke.IASide, cerke.ASide}
	if s.rng.Float64() < 0.5 {
		sides[0], sides[1] = sides[1], sides[0]
	}
	assignments := make(map[string]string, playersPerGame)
	for i, p := range game.Players {
		assignments[p.UserID] = sides[i].String()
	}
	if err := s.gameRepo.AssignSides(ctx, gameID, assignments); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// DeleteGame removes a waiting game. Only the game creator can delete a game.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// StopGame ends an active game as a draw. Only the game creator can stop a game.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if err := s.gameRepo.SetFinished(ctx, gameID, "draw"); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// ListGames returns open games, the user's games, or finished games.
func (s *GameService) ListGames(ctx context.Context, userID string, filter string) ([]model.Game, error) {
	switch filter {
	case "my":
		return s.gameRepo.ListByUser(ctx, userID)
	case "finished":
		return s.gameRepo.ListFinished(ctx)
	default:
		return s.gameRepo.ListOpen(ctx)
	}
}
