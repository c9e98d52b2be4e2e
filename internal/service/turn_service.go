package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/cerke-arbiter/internal/model"
	"github.com/freeeve/cerke-arbiter/internal/repository"
	"github.com/freeeve/cerke-arbiter/pkg/cerke"
	"github.com/freeeve/cerke-arbiter/pkg/transition"
)

var (
	ErrNotYourTurn = errors.New("it is not your turn")
	ErrWrongStage  = errors.New("the game is not waiting for this submission")
	ErrNoSession   = errors.New("game has not started")
	// ErrIllegalMove matches every rejected submission.
	ErrIllegalMove = transition.ErrIllegalMove
)

// TurnService runs live games. It owns the random source: every stick
// cast, water check and first-mover draw is made here and written to the
// turn log.
type TurnService struct {
	gameRepo    repository.GameRepository
	turnRepo    repository.TurnRepository
	cache       repository.GameCache
	rulesets    Rulesets
	rng         RandomSource
	broadcaster Broadcaster
	// timeout bounds the excited and decision stages. Zero disables it.
	timeout time.Duration
	now     func() time.Time

	// gameLocks serializes submissions and timeouts for the same game.
	gameLocks sync.Map
}

// NewTurnService creates a TurnService.
func NewTurnService(
	gameRepo repository.GameRepository,
	turnRepo repository.TurnRepository,
	cache repository.GameCache,
	rulesets Rulesets,
	rng RandomSource,
	broadcaster Broadcaster,
	timeout time.Duration,
) *TurnService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return &TurnService{
		gameRepo:    gameRepo,
		turnRepo:    turnRepo,
		cache:       cache,
		rulesets:    rulesets,
		rng:         rng,
		broadcaster: broadcaster,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Candidate is one legal submission with its wire code.
type Candidate struct {
	Kind  string                          `json:"kind"` // move, step, after_cast
	Text  string                          `json:"text"`
	Wire  uint32                          `json:"wire"`
	Move  *transition.NormalMove          `json:"move,omitempty"`
	Step  *transition.InfAfterStep        `json:"step,omitempty"`
	After *transition.AfterHalfAcceptance `json:"after,omitempty"`
}

// DecisionPreview shows what each answer to a pending hand leads to.
type DecisionPreview struct {
	ContinueRate transition.Rate    `json:"continue_rate"`
	EndGameOver  bool               `json:"end_game_over"`
	EndVictor    *transition.Victor `json:"end_victor,omitempty"`
	EndScores    *transition.Scores `json:"end_scores,omitempty"`
}

// View is a game's live state as shown to one user.
type View struct {
	GameID     string           `json:"game_id"`
	Status     string           `json:"status"`
	Ruleset    string           `json:"ruleset"`
	Session    *Session         `json:"session"`
	ToAct      string           `json:"to_act,omitempty"`
	YourSide   string           `json:"your_side,omitempty"`
	Candidates []Candidate      `json:"candidates,omitempty"`
	Preview    *DecisionPreview `json:"preview,omitempty"`
}

type turnContext struct {
	game   *model.Game
	config transition.Config
	sess   *Session
}

// play describes one accepted submission for the turn log.
type play struct {
	side    cerke.Side
	kind    string
	stage   Stage
	season  transition.Season
	wire    *int64
	payload any
	cast    *int
	outcome string
}

// gameLock returns the mutex for a given game ID.
func (s *TurnService) gameLock(gameID string) *sync.Mutex {
	v, _ := s.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func (s *TurnService) loadGame(ctx context.Context, gameID string) (*model.Game, transition.Config, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, transition.Config{}, err
	}
	if game == nil {
		return nil, transition.Config{}, ErrGameNotFound
	}
	rs, err := s.rulesets.Get(game.Ruleset)
	if err != nil {
		return nil, transition.Config{}, fmt.Errorf("game %s: %w", gameID, err)
	}
	return game, rs.Config, nil
}

// loadSession reads the cached session, falling back to the Postgres
// mirror and re-warming the cache.
func (s *TurnService) loadSession(ctx context.Context, gameID string) (*Session, error) {
	raw, err := s.cache.GetSession(ctx, gameID)
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Session cache read failed, using database")
		raw = nil
	}
	if raw == nil {
		raw, err = s.gameRepo.LoadSession(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, ErrNoSession
		}
		if err := s.cache.SetSession(ctx, gameID, raw); err != nil {
			log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to re-warm session cache")
		}
	}
	return unmarshalSession(raw)
}

// withGame runs fn under the game's lock with its live session loaded.
func (s *TurnService) withGame(ctx context.Context, gameID string, fn func(*turnContext) error) error {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, config, err := s.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	if game.Status != "active" {
		return ErrGameNotActive
	}
	sess, err := s.loadSession(ctx, gameID)
	if err != nil {
		return err
	}
	return fn(&turnContext{game: game, config: config, sess: sess})
}

// authorize checks that userID is the player the session waits for at stage want.
func (tc *turnContext) authorize(userID string, want Stage) (cerke.Side, error) {
	if tc.sess.Stage != want {
		return 0, fmt.Errorf("%w: game is at stage %s", ErrWrongStage, tc.sess.Stage)
	}
	mine := tc.game.SideOf(userID)
	if mine == "" {
		return 0, ErrNotInGame
	}
	side, _ := tc.sess.ToAct()
	if side.String() != mine {
		return 0, ErrNotYourTurn
	}
	return side, nil
}

func (tc *turnContext) begin(side cerke.Side, kind string) play {
	return play{side: side, kind: kind, stage: tc.sess.Stage, season: tc.sess.Season()}
}

// InitializeGame draws the first mover of spring and stores the opening
// session. It is a no-op for a game that already has one.
func (s *TurnService) InitializeGame(ctx context.Context, gameID string) (*Session, error) {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, config, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	if existing, err := s.gameRepo.LoadSession(ctx, gameID); err != nil {
		return nil, err
	} else if existing != nil {
		return unmarshalSession(existing)
	}

	enc, err := cerke.EncodingByName(game.Encoding)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}
	ground := transition.InitialState(enc).ChooseWhenNoCast(s.rng.Float64())
	tc := &turnContext{game: game, config: config, sess: groundSession(ground)}
	p := play{
		side:    ground.WhoseTurn,
		kind:    "start",
		stage:   StageGround,
		season:  ground.Season,
		payload: map[string]string{"first_mover": ground.WhoseTurn.String()},
		outcome: "started",
	}
	if err := s.commit(ctx, tc, p); err != nil {
		return nil, err
	}
	log.Info().Str("gameId", gameID).Str("firstMover", ground.WhoseTurn.String()).
		Str("ruleset", game.Ruleset).Msg("Game initialized")
	return tc.sess, nil
}

// View returns the game's live state, the legal submissions of the player
// to act and, for a pending hand, what each answer leads to.
func (s *TurnService) View(ctx context.Context, gameID, userID string) (*View, error) {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, config, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status == "waiting" {
		return nil, ErrNoSession
	}
	sess, err := s.loadSession(ctx, gameID)
	if err != nil {
		return nil, err
	}

	v := &View{
		GameID:   gameID,
		Status:   game.Status,
		Ruleset:  game.Ruleset,
		Session:  sess,
		YourSide: game.SideOf(userID),
	}
	if game.Status != "active" {
		return v, nil
	}
	if side, ok := sess.ToAct(); ok {
		v.ToAct = side.String()
	}
	v.Candidates = candidates(sess, config)
	if sess.Stage == StageDecision {
		v.Preview = preview(*sess.Pending, config)
	}
	return v, nil
}

func candidates(sess *Session, config transition.Config) []Candidate {
	var out []Candidate
	switch sess.Stage {
	case StageGround:
		fromReserve, onBoard := sess.Ground.Candidates(config)
		for _, m := range fromReserve {
			out = append(out, moveCandidate(m))
		}
		for _, pm := range onBoard {
			if !pm.IsInfAfterStep {
				out = append(out, moveCandidate(pm.Normal))
				continue
			}
			step := pm.InfAfterStep
			w, _ := transition.EncodeMessage(transition.Message{Kind: transition.MessageInfAfterStep, InfAfterStep: step})
			out = append(out, Candidate{Kind: "step", Text: step.Describe(), Wire: w, Step: &step})
		}
	case StageExcited:
		for _, a := range sess.Excited.Candidates(config) {
			w, _ := transition.EncodeMessage(transition.Message{Kind: transition.MessageAfterHalfAcceptance, AfterHalfAcceptance: a})
			out = append(out, Candidate{Kind: "after_cast", Text: a.Describe(), Wire: w, After: &a})
		}
	}
	return out
}

func moveCandidate(m transition.NormalMove) Candidate {
	w, _ := transition.EncodeMessage(transition.Message{Kind: transition.MessageNormalMove, NormalMove: m})
	return Candidate{Kind: "move", Text: m.Describe(), Wire: w, Move: &m}
}

func preview(pending transition.HandNotResolved, config transition.Config) *DecisionPreview {
	res := transition.Resolve(pending, config)
	if res.Kind != transition.ResolvedHandExists {
		return nil
	}
	p := &DecisionPreview{ContinueRate: res.IfContinue.Rate, EndGameOver: res.IfEndSeason.GameOver}
	if res.IfEndSeason.GameOver {
		v, scores := res.IfEndSeason.Victor, res.IfEndSeason.Scores
		p.EndVictor = &v
		p.EndScores = &scores
	} else if next := res.IfEndSeason.NextSeason.Values(); len(next) > 0 {
		scores := next[0].Scores
		p.EndScores = &scores
	}
	return p
}

// SubmitMove plays a normal move for the player to act.
func (s *TurnService) SubmitMove(ctx context.Context, gameID, userID string, move transition.NormalMove) (*Session, error) {
	move = move.Normalize()
	var out *Session
	err := s.withGame(ctx, gameID, func(tc *turnContext) error {
		side, err := tc.authorize(userID, StageGround)
		if err != nil {
			return err
		}
		p := tc.begin(side, "move")
		dist, err := transition.ApplyNormalMove(*tc.sess.Ground, move, tc.config)
		if err != nil {
			return err
		}
		pending, cast, hasCast := dist.Choose(s.rng.Float64())
		p.wire = wireCode(transition.Message{Kind: transition.MessageNormalMove, NormalMove: move})
		p.payload = move
		p.cast = castValue(cast, hasCast)
		p.outcome = s.resolve(tc, pending)
		out = tc.sess
		return s.commit(ctx, tc, p)
	})
	return out, err
}

// DeclareStep declares a stepped infinite move and casts the sticks for it.
func (s *TurnService) DeclareStep(ctx context.Context, gameID, userID string, step transition.InfAfterStep) (*Session, error) {
	var out *Session
	err := s.withGame(ctx, gameID, func(tc *turnContext) error {
		side, err := tc.authorize(userID, StageGround)
		if err != nil {
			return err
		}
		p := tc.begin(side, "step")
		dist, err := transition.ApplyInfAfterStep(*tc.sess.Ground, step, tc.config)
		if err != nil {
			return err
		}
		excited, cast, hasCast := dist.Choose(s.rng.Float64())
		tc.sess.setExcited(excited)
		p.wire = wireCode(transition.Message{Kind: transition.MessageInfAfterStep, InfAfterStep: step})
		p.payload = step
		p.cast = castValue(cast, hasCast)
		p.outcome = string(StageExcited)
		out = tc.sess
		return s.commit(ctx, tc, p)
	})
	return out, err
}

// SubmitAfterCast finishes or abandons a stepped move after its cast.
func (s *TurnService) SubmitAfterCast(ctx context.Context, gameID, userID string, m transition.AfterHalfAcceptance) (*Session, error) {
	var out *Session
	err := s.withGame(ctx, gameID, func(tc *turnContext) error {
		side, err := tc.authorize(userID, StageExcited)
		if err != nil {
			return err
		}
		out = tc.sess
		return s.afterCast(ctx, tc, tc.begin(side, "after_cast"), m)
	})
	return out, err
}

func (s *TurnService) afterCast(ctx context.Context, tc *turnContext, p play, m transition.AfterHalfAcceptance) error {
	dist, err := transition.ApplyAfterHalfAcceptance(*tc.sess.Excited, m, tc.config)
	if err != nil {
		return err
	}
	pending, cast, hasCast := dist.Choose(s.rng.Float64())
	p.wire = wireCode(transition.Message{Kind: transition.MessageAfterHalfAcceptance, AfterHalfAcceptance: m})
	p.payload = m
	p.cast = castValue(cast, hasCast)
	p.outcome = s.resolve(tc, pending)
	return s.commit(ctx, tc, p)
}

// Decide answers a pending hand: continue the season at a raised rate, or
// end it and bank the hand.
func (s *TurnService) Decide(ctx context.Context, gameID, userID string, continueSeason bool) (*Session, error) {
	var out *Session
	err := s.withGame(ctx, gameID, func(tc *turnContext) error {
		side, err := tc.authorize(userID, StageDecision)
		if err != nil {
			return err
		}
		out = tc.sess
		return s.decide(ctx, tc, tc.begin(side, "decision"), continueSeason)
	})
	return out, err
}

func (s *TurnService) decide(ctx context.Context, tc *turnContext, p play, continueSeason bool) error {
	res := transition.Resolve(*tc.sess.Pending, tc.config)
	if res.Kind != transition.ResolvedHandExists {
		return fmt.Errorf("game %s: pending hand resolves to %s", tc.game.ID, res.Kind)
	}
	p.payload = map[string]bool{"continue": continueSeason}
	switch {
	case continueSeason:
		p.outcome = "continue"
		if s.settle(tc, res.IfContinue) {
			p.outcome = "no_move_possible"
		}
	case res.IfEndSeason.GameOver:
		tc.sess.finish(res.IfEndSeason.Victor, res.IfEndSeason.Scores)
		p.outcome = string(transition.ResolvedGameOver)
	default:
		next := res.IfEndSeason.NextSeason.ChooseWhenNoCast(s.rng.Float64())
		tc.sess.setGround(next)
		p.outcome = "end_season"
	}
	return s.commit(ctx, tc, p)
}

// SubmitWire decodes a 32-bit message word and plays it.
func (s *TurnService) SubmitWire(ctx context.Context, gameID, userID string, word uint32) (*Session, error) {
	m, ok := transition.DecodeMessage(word)
	if !ok {
		return nil, fmt.Errorf("%w: undecodable word %#08x", ErrIllegalMove, word)
	}
	switch m.Kind {
	case transition.MessageNormalMove:
		return s.SubmitMove(ctx, gameID, userID, m.NormalMove)
	case transition.MessageInfAfterStep:
		return s.DeclareStep(ctx, gameID, userID, m.InfAfterStep)
	default:
		return s.SubmitAfterCast(ctx, gameID, userID, m.AfterHalfAcceptance)
	}
}

// resolve scores a finished move into the session and names the outcome.
func (s *TurnService) resolve(tc *turnContext, pending transition.HandNotResolved) string {
	res := transition.Resolve(pending, tc.config)
	switch res.Kind {
	case transition.ResolvedTurnPasses:
		if s.settle(tc, res.Next) {
			return "no_move_possible"
		}
	case transition.ResolvedHandExists:
		tc.sess.setPending(pending)
	case transition.ResolvedGameOver:
		tc.sess.setPending(pending)
		tc.sess.finish(res.Victor, res.Scores)
	}
	return string(res.Kind)
}

// settle installs a ground state and ends the game if its player to move
// has no legal submission. It reports whether the game ended.
func (s *TurnService) settle(tc *turnContext, g transition.GroundState) bool {
	tc.sess.setGround(g)
	end, err := transition.NoMovePossibleAtAll(g, tc.config)
	if err != nil {
		return false
	}
	tc.sess.finish(end.Victor, end.Scores)
	return true
}

// HandleTimeout applies the default answer for an expired stage: an
// abandoned stepped move passes, a pending hand ends the season.
func (s *TurnService) HandleTimeout(ctx context.Context, gameID string) error {
	err := s.withGame(ctx, gameID, func(tc *turnContext) error {
		d := tc.sess.Deadline
		if d == nil || s.now().Before(*d) {
			log.Debug().Str("gameId", gameID).Msg("Ignoring stale timer")
			return nil
		}
		side, _ := tc.sess.ToAct()
		log.Info().Str("gameId", gameID).Str("stage", string(tc.sess.Stage)).
			Str("side", side.String()).Msg("Decision deadline passed")
		switch tc.sess.Stage {
		case StageExcited:
			return s.afterCast(ctx, tc, tc.begin(side, "timeout"), transition.Pass())
		case StageDecision:
			return s.decide(ctx, tc, tc.begin(side, "timeout"), false)
		}
		return nil
	})
	if errors.Is(err, ErrGameNotActive) || errors.Is(err, ErrGameNotFound) {
		return nil
	}
	return err
}

// arm sets the decision deadline for stages that wait on a bounded answer.
func (s *TurnService) arm(sess *Session) {
	sess.Deadline = nil
	if s.timeout <= 0 {
		return
	}
	if sess.Stage == StageExcited || sess.Stage == StageDecision {
		d := s.now().Add(s.timeout)
		sess.Deadline = &d
	}
}

// commit records the turn together with the session, mirrors the session
// to Redis, and notifies clients. Nothing is cached or broadcast unless the
// record succeeded, so a failed commit leaves the game as it was.
func (s *TurnService) commit(ctx context.Context, tc *turnContext, p play) error {
	gameID := tc.game.ID
	tc.sess.Seq++
	s.arm(tc.sess)

	raw, err := marshalSession(tc.sess)
	if err != nil {
		return err
	}
	turn := &model.Turn{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Seq:        tc.sess.Seq,
		Season:     string(p.season),
		Side:       p.side.String(),
		Stage:      string(p.stage),
		Kind:       p.kind,
		WireCode:   p.wire,
		CastValue:  p.cast,
		Outcome:    p.outcome,
		StateAfter: raw,
	}
	if p.payload != nil {
		if turn.Payload, err = json.Marshal(p.payload); err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
	}
	if err := s.turnRepo.Record(ctx, turn, raw, tc.sess.Deadline); err != nil {
		return err
	}

	if tc.sess.Stage == StageFinished {
		return s.finishGame(ctx, tc, p)
	}

	if err := s.cache.SetSession(ctx, gameID, raw); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to cache session")
	}
	if tc.sess.Deadline != nil {
		err = s.cache.SetTimer(ctx, gameID, *tc.sess.Deadline)
	} else {
		err = s.cache.ClearTimer(ctx, gameID)
	}
	if err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to update decision timer")
	}

	toAct, _ := tc.sess.ToAct()
	log.Debug().Str("gameId", gameID).Int("seq", turn.Seq).Str("kind", p.kind).
		Str("outcome", p.outcome).Str("stage", string(tc.sess.Stage)).Msg("Turn played")
	s.broadcaster.BroadcastGameEvent(gameID, "turn_played", map[string]any{
		"seq":     turn.Seq,
		"side":    turn.Side,
		"kind":    p.kind,
		"cast":    p.cast,
		"outcome": p.outcome,
		"stage":   tc.sess.Stage,
		"to_act":  toAct.String(),
	})
	return nil
}

func (s *TurnService) finishGame(ctx context.Context, tc *turnContext, p play) error {
	gameID := tc.game.ID
	winner := tc.sess.Victor.String()
	if err := s.gameRepo.SetFinished(ctx, gameID, winner); err != nil {
		return err
	}
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear cached game data")
	}
	scores, _ := tc.sess.Scores()
	log.Info().Str("gameId", gameID).Str("winner", winner).Str("outcome", p.outcome).Msg("Game ended")
	s.broadcaster.BroadcastGameEvent(gameID, "game_ended", map[string]any{
		"seq":     tc.sess.Seq,
		"winner":  winner,
		"outcome": p.outcome,
		"scores":  scores,
	})
	return nil
}

// CleanupStoppedGame closes the session of a game its creator stopped.
func (s *TurnService) CleanupStoppedGame(ctx context.Context, gameID string) error {
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.loadSession(ctx, gameID)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return err
	}
	if sess != nil && sess.Stage != StageFinished {
		scores, _ := sess.Scores()
		sess.finish(transition.DrawVictor(), scores)
		raw, err := marshalSession(sess)
		if err != nil {
			return err
		}
		if err := s.gameRepo.SaveSession(ctx, gameID, raw, nil); err != nil {
			return err
		}
	}
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to clear cached game data")
	}
	s.broadcaster.BroadcastGameEvent(gameID, "game_ended", map[string]any{
		"winner":  "draw",
		"outcome": "stopped",
	})
	return nil
}

// History returns a game's turn log.
func (s *TurnService) History(ctx context.Context, gameID string) ([]model.Turn, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return s.turnRepo.ListByGame(ctx, gameID)
}

// RecoverActiveGames restores the Redis session and timer of every active
// game from Postgres. Called on server startup.
func (s *TurnService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("No active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("Recovering active games after restart")
	for _, game := range games {
		raw, err := s.gameRepo.LoadSession(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to load session during recovery")
			continue
		}
		if raw == nil {
			log.Warn().Str("gameId", game.ID).Msg("Active game has no session, initializing")
			if _, err := s.InitializeGame(ctx, game.ID); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to initialize game during recovery")
			}
			continue
		}
		sess, err := unmarshalSession(raw)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to decode session during recovery")
			continue
		}
		if err := s.cache.SetSession(ctx, game.ID, raw); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore session")
			continue
		}
		if sess.Deadline != nil {
			if err := s.cache.SetTimer(ctx, game.ID, *sess.Deadline); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore timer")
			}
		}
		log.Info().Str("gameId", game.ID).Str("stage", string(sess.Stage)).Int("seq", sess.Seq).Msg("Recovered game")
	}
	return nil
}

func wireCode(m transition.Message) *int64 {
	w, err := transition.EncodeMessage(m)
	if err != nil {
		return nil
	}
	v := int64(w)
	return &v
}

func castValue(cast int, hasCast bool) *int {
	if !hasCast {
		return nil
	}
	return &cast
}
