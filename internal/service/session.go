package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
	"github.com/freeeve/cerke-arbiter/pkg/transition"
)

// Stage is the point a live game has reached within a turn.
type Stage string

const (
	// StageGround waits for a normal move or a stepped-move declaration.
	StageGround Stage = "ground"
	// StageExcited waits for the decision after a stick cast.
	StageExcited Stage = "excited"
	// StageDecision waits for the mover to continue or end the season.
	StageDecision Stage = "decision"
	// StageFinished is a game that has a victor.
	StageFinished Stage = "finished"
)

// Session is the live state of an active game. The state field matching
// Stage is set; Pending holds the scored move a decision is about.
// FinalScores is the ledger a finished game ended on.
type Session struct {
	Stage       Stage                       `json:"stage"`
	Seq         int                         `json:"seq"`
	Ground      *transition.GroundState     `json:"ground,omitempty"`
	Excited     *transition.ExcitedState    `json:"excited,omitempty"`
	Pending     *transition.HandNotResolved `json:"pending,omitempty"`
	Victor      *transition.Victor          `json:"victor,omitempty"`
	FinalScores *transition.Scores          `json:"final_scores,omitempty"`
	Deadline    *time.Time                  `json:"deadline,omitempty"`
}

func groundSession(g transition.GroundState) *Session {
	return &Session{Stage: StageGround, Ground: &g}
}

// ToAct returns the side whose submission the session waits for.
func (s *Session) ToAct() (cerke.Side, bool) {
	switch s.Stage {
	case StageGround:
		return s.Ground.WhoseTurn, true
	case StageExcited:
		return s.Excited.WhoseTurn, true
	case StageDecision:
		return s.Pending.WhoseTurn, true
	}
	return 0, false
}

// Season returns the season being played.
func (s *Session) Season() transition.Season {
	switch {
	case s.Ground != nil:
		return s.Ground.Season
	case s.Excited != nil:
		return s.Excited.Season
	case s.Pending != nil:
		return s.Pending.Season
	}
	return ""
}

// Scores returns the point pool as of the current stage, or the final
// ledger once the game is over.
func (s *Session) Scores() (transition.Scores, bool) {
	switch {
	case s.FinalScores != nil:
		return *s.FinalScores, true
	case s.Ground != nil:
		return s.Ground.Scores, true
	case s.Excited != nil:
		return s.Excited.Scores, true
	case s.Pending != nil:
		return s.Pending.Scores, true
	}
	return transition.Scores{}, false
}

// setGround moves the session to a ground state, dropping older stages.
func (s *Session) setGround(g transition.GroundState) {
	s.Stage, s.Ground, s.Excited, s.Pending = StageGround, &g, nil, nil
}

func (s *Session) setExcited(e transition.ExcitedState) {
	s.Stage, s.Ground, s.Excited, s.Pending = StageExcited, nil, &e, nil
}

func (s *Session) setPending(h transition.HandNotResolved) {
	s.Stage, s.Ground, s.Excited, s.Pending = StageDecision, nil, nil, &h
}

// finish records the victor and the ledger the game ended on. The last
// state is kept for viewing.
func (s *Session) finish(v transition.Victor, scores transition.Scores) {
	s.Stage = StageFinished
	s.Victor = &v
	s.FinalScores = &scores
	s.Deadline = nil
}

func (s *Session) validate() error {
	var ok bool
	switch s.Stage {
	case StageGround:
		ok = s.Ground != nil
	case StageExcited:
		ok = s.Excited != nil
	case StageDecision:
		ok = s.Pending != nil
	case StageFinished:
		ok = s.Victor != nil
	}
	if !ok {
		return fmt.Errorf("session: stage %q without its state", s.Stage)
	}
	return nil
}

func marshalSession(s *Session) (json.RawMessage, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return b, nil
}

func unmarshalSession(b json.RawMessage) (*Session, error) {
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}
