package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/freeeve/cerke-arbiter/internal/repository"
	"github.com/freeeve/cerke-arbiter/internal/service"
)

// Stores are the repositories a match is played against.
type Stores struct {
	Users repository.UserRepository
	Games repository.GameRepository
	Turns repository.TurnRepository
	Cache repository.GameCache
}

// MatchConfig configures one self-play game.
type MatchConfig struct {
	Name     string
	Ruleset  string
	Encoding string
	Seed     uint64
	// MaxTurns stops the game as a draw when reached. Zero means no cap.
	MaxTurns int
	// ContinueRate is the chance a player with a hand keeps the season going.
	ContinueRate float64
}

// MatchResult summarizes a finished self-play game.
type MatchResult struct {
	GameID  string `json:"game_id"`
	Name    string `json:"name"`
	Seed    uint64 `json:"seed"`
	Winner  string `json:"winner"`
	Turns   int    `json:"turns"`
	Seasons int    `json:"seasons"`
	Capped  bool   `json:"capped,omitempty"`
}

// RunMatch plays one game through the turn service. Both players pick
// uniformly among the legal candidates; every cast and water check is drawn
// by the service from a source seeded with cfg.Seed, so a seed replays the
// same game.
func RunMatch(ctx context.Context, cfg MatchConfig, st Stores, rulesets service.Rulesets) (*MatchResult, error) {
	serverRNG := service.NewSeededRNG(cfg.Seed)
	players := rand.New(rand.NewPCG(cfg.Seed, 1))

	gameSvc := service.NewGameService(st.Games, rulesets, serverRNG, cfg.Encoding)
	turnSvc := service.NewTurnService(st.Games, st.Turns, st.Cache, rulesets, serverRNG, nil, 0)

	creator, err := st.Users.Upsert(ctx, "selfplay", fmt.Sprintf("%s-1", cfg.Name), cfg.Name+" #1", "")
	if err != nil {
		return nil, err
	}
	opponent, err := st.Users.Upsert(ctx, "selfplay", fmt.Sprintf("%s-2", cfg.Name), cfg.Name+" #2", "")
	if err != nil {
		return nil, err
	}

	game, err := gameSvc.CreateGame(ctx, cfg.Name, creator.ID, cfg.Ruleset, cfg.Encoding)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	if err := gameSvc.JoinGame(ctx, game.ID, opponent.ID); err != nil {
		return nil, fmt.Errorf("join game: %w", err)
	}
	if game, err = gameSvc.StartGame(ctx, game.ID, creator.ID); err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	if _, err := turnSvc.InitializeGame(ctx, game.ID); err != nil {
		return nil, fmt.Errorf("initialize game: %w", err)
	}

	res := &MatchResult{GameID: game.ID, Name: cfg.Name, Seed: cfg.Seed}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		view, err := turnSvc.View(ctx, game.ID, "")
		if err != nil {
			return nil, err
		}
		if view.Status != "active" {
			break
		}
		if cfg.MaxTurns > 0 && res.Turns >= cfg.MaxTurns {
			if _, err := gameSvc.StopGame(ctx, game.ID, creator.ID); err != nil {
				return nil, fmt.Errorf("stop capped game: %w", err)
			}
			if err := turnSvc.CleanupStoppedGame(ctx, game.ID); err != nil {
				return nil, err
			}
			res.Capped = true
			break
		}

		mover := game.PlayerOn(view.ToAct)
		switch {
		case view.Session.Stage == service.StageDecision:
			_, err = turnSvc.Decide(ctx, game.ID, mover, players.Float64() < cfg.ContinueRate)
		case len(view.Candidates) == 0:
			return nil, fmt.Errorf("game %s: no candidates at stage %s", game.ID, view.Session.Stage)
		default:
			pick := view.Candidates[players.IntN(len(view.Candidates))]
			_, err = turnSvc.SubmitWire(ctx, game.ID, mover, pick.Wire)
		}
		if err != nil {
			return nil, fmt.Errorf("turn %d: %w", res.Turns+1, err)
		}
		res.Turns++
	}

	return res, summarize(ctx, res, st.Games, turnSvc)
}

// summarize fills the winner and the seasons played.
func summarize(ctx context.Context, res *MatchResult, games repository.GameRepository, turnSvc *service.TurnService) error {
	game, err := games.FindByID(ctx, res.GameID)
	if err != nil {
		return err
	}
	res.Winner = game.Winner

	turns, err := turnSvc.History(ctx, res.GameID)
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, t := range turns {
		seen[t.Season] = true
	}
	res.Seasons = len(seen)
	return nil
}
