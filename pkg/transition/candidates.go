package transition

import "github.com/freeeve/cerke-arbiter/pkg/cerke"

// Candidates lists the legal submissions from a ground state: placements
// from the reserve and moves on the board. Tam moves the config forbids
// are left out.
func (s GroundState) Candidates(config Config) (fromReserve []NormalMove, onBoard []PureMove) {
	reserve, board := cerke.Candidates(s.Field, s.WhoseTurn, config.TamItselfIsTamHue)

	fromReserve = make([]NormalMove, 0, len(reserve))
	for _, c := range reserve {
		fromReserve = append(fromReserve, FromCandidate(c).Normal)
	}

	onBoard = make([]PureMove, 0, len(board))
	for _, c := range board {
		if c.Kind.IsTamMove() {
			if s.TamHasMovedPreviously && config.MovingTamImmediatelyAfterTamHasMoved.Kind == ConsequenceForbidden {
				continue
			}
			if c.Src == c.SecondDest && config.TamMunMok.Kind == ConsequenceForbidden {
				continue
			}
		}
		onBoard = append(onBoard, FromCandidate(c))
	}
	return fromReserve, onBoard
}

// HasAnyMove reports whether the player to move has at least one legal
// submission.
func (s GroundState) HasAnyMove(config Config) bool {
	fromReserve, onBoard := s.Candidates(config)
	return len(fromReserve) > 0 || len(onBoard) > 0
}

// Candidates lists the legal decisions after the cast. Passing is always
// first. A destination qualifies when it was a legal planned direction for
// the same src and step, lies within Cast squares of the step, and agrees
// with the announced plan.
func (e ExcitedState) Candidates(config Config) []AfterHalfAcceptance {
	out := []AfterHalfAcceptance{Pass()}
	_, board := cerke.Candidates(e.Field, e.WhoseTurn, config.TamItselfIsTamHue)
	for _, c := range board {
		if c.Kind != cerke.MoveInfAfterStep || c.Src != e.FlyingPieceSrc || c.Step != e.FlyingPieceStep {
			continue
		}
		if cerke.Distance(e.FlyingPieceStep, c.Dest) > e.Cast {
			continue
		}
		if !matchesPlan(config.WhatToSayBeforeCastingSticks, e.FlyingPieceStep, e.FlyingPiecePlannedDirection, c.Dest) {
			continue
		}
		out = append(out, AcceptAt(c.Dest))
	}
	return out
}

func matchesPlan(plan Plan, step, planned, dest cerke.Coord) bool {
	switch plan {
	case PlanExactDestination:
		return dest == planned
	case PlanDirection:
		return cerke.SameDirection(step, planned, dest)
	}
	return true
}
