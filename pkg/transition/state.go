package transition

import "github.com/freeeve/cerke-arbiter/pkg/cerke"

// GroundState is a position at rest: the player to move may submit a
// normal move or declare a stepped infinite move.
type GroundState struct {
	Field     cerke.Field
	WhoseTurn cerke.Side
	Season    Season
	Scores    Scores
	Rate      Rate
	// TamHasMovedPreviously is set when the opponent moved the Tam on the
	// turn that just ended.
	TamHasMovedPreviously bool
}

// ExcitedStateWithoutCast is a stepped infinite move waiting for its
// cast. Field is the position before the move.
type ExcitedStateWithoutCast struct {
	Field                       cerke.Field
	WhoseTurn                   cerke.Side
	FlyingPieceSrc              cerke.Coord
	FlyingPieceStep             cerke.Coord
	FlyingPiecePlannedDirection cerke.Coord
	Season                      Season
	Scores                      Scores
	Rate                        Rate
}

// ExcitedState is a stepped infinite move after the cast: the player now
// picks a destination within Cast squares of the step, or passes.
type ExcitedState struct {
	ExcitedStateWithoutCast
	Cast int
}

// HandNotResolved is a position right after a move, before hands and
// penalties are scored.
type HandNotResolved struct {
	Field            cerke.Field
	WhoseTurn        cerke.Side
	Season           Season
	Scores           Scores
	Rate             Rate
	MovedTamThisTurn bool
	// Reserves as they were before the move.
	PreviousIAReserve []cerke.ColorProf
	PreviousAReserve  []cerke.ColorProf
	SteppedOnTam      bool
	// TamPenalty is the raw penalty accrued by Tam moves this turn.
	TamPenalty        int
	TamPenaltyIsAHand bool
}

// previousReserve returns the mover's reserve before the move.
func (h HandNotResolved) previousReserve() []cerke.ColorProf {
	if h.WhoseTurn == cerke.IASide {
		return h.PreviousIAReserve
	}
	return h.PreviousAReserve
}

// ResolvedKind is the outcome of scoring a turn.
type ResolvedKind string

const (
	// ResolvedTurnPasses: no hand; the opponent moves next.
	ResolvedTurnPasses ResolvedKind = "turn_passes"
	// ResolvedHandExists: the mover chooses to continue or end the season.
	ResolvedHandExists ResolvedKind = "hand_exists"
	// ResolvedGameOver: a penalty emptied a holding; no decision is offered.
	ResolvedGameOver ResolvedKind = "game_over"
)

// HandResolved is the result of Resolve. Only the fields of Kind are set.
type HandResolved struct {
	Kind ResolvedKind
	// Next is the following position for ResolvedTurnPasses.
	Next GroundState
	// IfContinue is the position if the mover continues the season.
	IfContinue GroundState
	// IfEndSeason applies the hand if the mover ends the season.
	IfEndSeason IfEndSeason
	// Victor and Scores, the final ledger, are set for ResolvedGameOver.
	Victor Victor
	Scores Scores
}

// IfEndSeason is what ending the season leads to: either the next season,
// whose first mover is still to be drawn, or the end of the game.
type IfEndSeason struct {
	GameOver bool
	Victor   Victor
	// Scores is the final ledger when GameOver is set.
	Scores     Scores
	NextSeason Probabilistic[GroundState]
}

func (s GroundState) excite(src, step, planned cerke.Coord, cast int) ExcitedState {
	return ExcitedState{
		ExcitedStateWithoutCast: ExcitedStateWithoutCast{
			Field:                       s.Field,
			WhoseTurn:                   s.WhoseTurn,
			FlyingPieceSrc:              src,
			FlyingPieceStep:             step,
			FlyingPiecePlannedDirection: planned,
			Season:                      s.Season,
			Scores:                      s.Scores,
			Rate:                        s.Rate,
		},
		Cast: cast,
	}
}

// pending builds the HandNotResolved for field reached from s.
func (s GroundState) pending(field cerke.Field, steppedOnTam bool) HandNotResolved {
	return HandNotResolved{
		Field:             field,
		WhoseTurn:         s.WhoseTurn,
		Season:            s.Season,
		Scores:            s.Scores,
		Rate:              s.Rate,
		PreviousIAReserve: s.Field.Reserve(cerke.IASide),
		PreviousAReserve:  s.Field.Reserve(cerke.ASide),
		SteppedOnTam:      steppedOnTam,
	}
}

func (e ExcitedState) ground() GroundState {
	return GroundState{
		Field:     e.Field,
		WhoseTurn: e.WhoseTurn,
		Season:    e.Season,
		Scores:    e.Scores,
		Rate:      e.Rate,
	}
}
