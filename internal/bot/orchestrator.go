package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/service"
)

// maxConflicts is how many rejected submissions in a row are retried.
const maxConflicts = 3

// Options configures a bot game.
type Options struct {
	Name     string
	Ruleset  string
	Encoding string
	Seed     uint64
	// MaxTurns stops the game as a draw when reached. Zero means no cap.
	MaxTurns int
	// ContinueRate is the chance a bot with a hand keeps the season going.
	ContinueRate float64
	// EventWait bounds the wait for the WebSocket event that follows each
	// submission. The bot falls back to polling when it expires.
	EventWait time.Duration
}

// Result summarizes a game the bots played.
type Result struct {
	GameID string
	Winner string
	Turns  int
	Capped bool
}

// Orchestrator plays one game between two bot players through the HTTP API.
type Orchestrator struct {
	baseURL string
	opts    Options
	rng     *rand.Rand
	bots    map[string]*Client // by side
	creator *Client
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(baseURL string, opts Options) *Orchestrator {
	if opts.Name == "" {
		opts.Name = "Bot Game"
	}
	if opts.EventWait <= 0 {
		opts.EventWait = 5 * time.Second
	}
	return &Orchestrator{
		baseURL: baseURL,
		opts:    opts,
		rng:     rand.New(rand.NewPCG(opts.Seed, 2)),
		bots:    make(map[string]*Client),
	}
}

// Run executes a full game: log in, create, join, start, then play until
// the server reports the game finished.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	log.Info().Str("ruleset", o.opts.Ruleset).Uint64("seed", o.opts.Seed).Msg("Starting bot game")

	first := NewClient("Bot1", o.baseURL)
	second := NewClient("Bot2", o.baseURL)
	for _, c := range []*Client{first, second} {
		if err := c.Login(ctx); err != nil {
			return nil, fmt.Errorf("login %s: %w", c.Name(), err)
		}
	}
	o.creator = first

	game, err := first.CreateGame(ctx, o.opts.Name, o.opts.Ruleset, o.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	log.Info().Str("gameId", game.ID).Msg("Game created")
	if err := second.JoinGame(ctx, game.ID); err != nil {
		return nil, fmt.Errorf("join %s: %w", second.Name(), err)
	}

	// Only the creator listens; one stream is enough to pace the game.
	if err := first.ConnectWS(ctx); err != nil {
		return nil, fmt.Errorf("ws connect: %w", err)
	}
	defer first.CloseWS()
	if err := first.SubscribeGame(game.ID); err != nil {
		return nil, fmt.Errorf("ws subscribe: %w", err)
	}
	if _, err := o.waitForEvent(ctx, "subscribed"); err != nil {
		return nil, err
	}

	if game, err = first.StartGame(ctx, game.ID); err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	// The logged start turn is announced before game_started.
	if _, err := o.waitForEvent(ctx, "game_started"); err != nil {
		return nil, err
	}
	for _, c := range []*Client{first, second} {
		side := game.SideOf(c.UserID())
		if side == "" {
			return nil, fmt.Errorf("no side assigned to %s (user %s)", c.Name(), c.UserID())
		}
		o.bots[side] = c
		log.Info().Str("bot", c.Name()).Str("side", side).Msg("Side assigned")
	}

	res := &Result{GameID: game.ID}
	if err := o.playLoop(ctx, res); err != nil {
		return nil, err
	}

	final, err := first.GetGame(ctx, game.ID)
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	res.Winner = final.Winner
	log.Info().Str("gameId", game.ID).Str("winner", res.Winner).Int("turns", res.Turns).Msg("Bot game finished")
	return res, nil
}

// playLoop fetches the state, lets the bot to act submit, then waits for
// the server to announce the result.
func (o *Orchestrator) playLoop(ctx context.Context, res *Result) error {
	gameID := res.GameID
	conflicts := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Info().Msg("Context cancelled, stopping bots")
			return err
		}

		view, err := o.creator.State(ctx, gameID)
		if err != nil {
			return fmt.Errorf("get state: %w", err)
		}
		if view.Status != "active" {
			return nil
		}
		if o.opts.MaxTurns > 0 && res.Turns >= o.opts.MaxTurns {
			if err := o.creator.StopGame(ctx, gameID); err != nil {
				return fmt.Errorf("stop capped game: %w", err)
			}
			res.Capped = true
			_, err := o.waitForEvent(ctx, "game_ended")
			return err
		}

		mover, ok := o.bots[view.ToAct]
		if !ok {
			return fmt.Errorf("no bot plays side %q", view.ToAct)
		}
		if err := o.act(ctx, mover, gameID); err != nil {
			var se *StatusError
			if errors.As(err, &se) && se.Code == http.StatusConflict && conflicts < maxConflicts {
				conflicts++
				// A decision timeout raced the submission; the next state
				// fetch picks up whatever the server decided.
				log.Warn().Err(err).Str("bot", mover.Name()).Msg("Submission rejected, refetching state")
				continue
			}
			return fmt.Errorf("turn %d: %w", res.Turns+1, err)
		}
		conflicts = 0
		res.Turns++

		event, err := o.waitForEvent(ctx, "turn_played", "game_ended")
		if err != nil {
			return err
		}
		if event.Type == "game_ended" {
			winner, _ := event.Data["winner"].(string)
			log.Info().Str("winner", winner).Msg("Game ended")
		}
	}
}

// act plays for mover from its own view of the game. Moves are uniform
// over the candidates the server offers.
func (o *Orchestrator) act(ctx context.Context, mover *Client, gameID string) error {
	view, err := mover.State(ctx, gameID)
	if err != nil {
		return err
	}
	if view.Session != nil && view.Session.Stage == service.StageDecision {
		cont := o.rng.Float64() < o.opts.ContinueRate
		log.Debug().Str("bot", mover.Name()).Bool("continue", cont).Msg("Deciding")
		_, err = mover.Decide(ctx, gameID, cont)
		return err
	}
	if len(view.Candidates) == 0 {
		return fmt.Errorf("no candidates offered to %s", mover.Name())
	}
	pick := view.Candidates[o.rng.IntN(len(view.Candidates))]
	log.Debug().Str("bot", mover.Name()).Str("kind", pick.Kind).Str("move", pick.Text).Msg("Submitting")
	_, err = mover.SubmitWire(ctx, gameID, pick.Wire)
	return err
}

// waitForEvent blocks until one of the given event types arrives. Running
// out of EventWait is not an error: the caller polls the state next.
func (o *Orchestrator) waitForEvent(ctx context.Context, eventTypes ...string) (WSEvent, error) {
	typeSet := make(map[string]bool)
	for _, t := range eventTypes {
		typeSet[t] = true
	}

	timeout := time.After(o.opts.EventWait)
	for {
		select {
		case <-ctx.Done():
			return WSEvent{}, ctx.Err()
		case <-timeout:
			log.Debug().Strs("types", eventTypes).Msg("No event in time, polling")
			return WSEvent{}, nil
		case event, ok := <-o.creator.Events():
			if !ok {
				return WSEvent{}, fmt.Errorf("ws connection closed")
			}
			if typeSet[event.Type] {
				return event, nil
			}
			log.Debug().Str("type", event.Type).Msg("Ignoring event")
		}
	}
}
