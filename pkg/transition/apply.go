package transition

import (
	"fmt"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

// ApplyNormalMove applies a move that needs no intermediate decision. The
// result is certain except for water entry, which yields a Water
// distribution between the unchanged field and the completed move.
func ApplyNormalMove(old GroundState, msg NormalMove, config Config) (Probabilistic[HandNotResolved], error) {
	msg = msg.Normalize()
	if !allOnBoard(msg.Src, msg.Step, msg.Dest, msg.FirstDest, msg.SecondDest) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "coordinate off the board")
	}
	fromReserve, onBoard := old.Candidates(config)

	if msg.Kind == MoveFromReserve {
		cp := cerke.ColorProf{Color: msg.Color, Prof: msg.Prof}
		field, err := cerke.Parachute(old.Field, cp, old.WhoseTurn, msg.Dest)
		if err != nil {
			return Probabilistic[HandNotResolved]{}, illegal(msg, "%v", err)
		}
		if !containsNormal(fromReserve, msg) {
			panic(fmt.Sprintf("transition: placement %s succeeded but the generator does not list it", msg.Describe()))
		}
		return Pure(old.pending(field, false)), nil
	}

	if !containsPure(onBoard, PureMove{Normal: msg}) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "not among the legal moves")
	}

	switch msg.Kind {
	case MoveTamNoStep, MoveTamStepsDuringFormer, MoveTamStepsDuringLatter:
		return applyTamMove(old, msg, config)
	case MoveSrcDst:
		return applyNonTamMove(old, msg, msg.Src, nil, msg.Dest, config)
	case MoveSrcStepDst:
		step := msg.Step
		return applyNonTamMove(old, msg, msg.Src, &step, msg.Dest, config)
	}
	return Probabilistic[HandNotResolved]{}, illegal(msg, "unknown move kind")
}

func applyTamMove(old GroundState, msg NormalMove, config Config) (Probabilistic[HandNotResolved], error) {
	src, firstDest, secondDest := msg.Src, msg.FirstDest, msg.SecondDest
	var step *cerke.Coord
	if msg.Kind != MoveTamNoStep {
		step = &msg.Step
	}

	var consequences []Consequence
	if old.TamHasMovedPreviously {
		consequences = append(consequences, config.MovingTamImmediatelyAfterTamHasMoved)
	}
	if src == secondDest {
		consequences = append(consequences, config.TamMunMok)
	}

	penalty, isAHand := 0, false
	for _, c := range consequences {
		switch c.Kind {
		case ConsequenceForbidden:
			return Probabilistic[HandNotResolved]{}, illegal(msg, "the rules forbid this tam move")
		case ConsequencePenalized:
			penalty += c.Penalty
			isAHand = isAHand || c.IsAHand
		}
	}

	field := old.Field.Clone()
	if p, ok := field.Remove(src); !ok || !p.Tam {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "%s does not hold the tam", src)
	}
	if cerke.Occupied(field, firstDest) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "first destination %s is occupied", firstDest)
	}
	if step != nil && !cerke.Occupied(field, *step) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "step %s is empty", *step)
	}
	if cerke.Occupied(field, secondDest) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "second destination %s is occupied", secondDest)
	}
	field.Put(secondDest, cerke.TamPiece())

	next := old.pending(field, false)
	next.MovedTamThisTurn = true
	next.TamPenalty = penalty
	next.TamPenaltyIsAHand = isAHand
	return Pure(next), nil
}

func applyNonTamMove(old GroundState, msg NormalMove, src cerke.Coord, step *cerke.Coord, dest cerke.Coord, config Config) (Probabilistic[HandNotResolved], error) {
	steppedOnTam := step != nil && cerke.HoldsTam(old.Field, *step)
	if step != nil && !cerke.Occupied(old.Field, *step) {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "step %s is empty", *step)
	}
	return completeMove(old, msg, src, dest, steppedOnTam, config)
}

// completeMove moves the piece on src to dest, adding the water check when
// the move enters water.
func completeMove(old GroundState, msg interface{ Describe() string }, src, dest cerke.Coord, steppedOnTam bool, config Config) (Probabilistic[HandNotResolved], error) {
	piece, ok := old.Field.Get(src)
	if !ok {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "%s is empty", src)
	}
	field, err := cerke.MoveNonTam(old.Field, src, dest, old.WhoseTurn)
	if err != nil {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "%v", err)
	}

	success := old.pending(field, steppedOnTam)
	if !cerke.EntersWater(piece.Prof, src, dest) {
		return Pure(success), nil
	}
	failure := old.pending(old.Field, steppedOnTam && !config.FailureToCompleteMoveExemptsSteppedTam)
	return Water(failure, success), nil
}

// ApplyInfAfterStep declares a stepped infinite move and returns the stick
// cast over the resulting excited states.
func ApplyInfAfterStep(old GroundState, msg InfAfterStep, config Config) (Probabilistic[ExcitedState], error) {
	if !allOnBoard(msg.Src, msg.Step, msg.PlannedDirection) {
		return Probabilistic[ExcitedState]{}, illegal(msg, "coordinate off the board")
	}
	if !cerke.Occupied(old.Field, msg.Src) {
		return Probabilistic[ExcitedState]{}, illegal(msg, "%s is empty", msg.Src)
	}
	if !cerke.Occupied(old.Field, msg.Step) {
		return Probabilistic[ExcitedState]{}, illegal(msg, "step %s is empty", msg.Step)
	}

	_, onBoard := old.Candidates(config)
	found := false
	for _, c := range onBoard {
		if c.IsInfAfterStep && c.InfAfterStep.Src == msg.Src && c.InfAfterStep.Step == msg.Step {
			found = true
			break
		}
	}
	if !found {
		return Probabilistic[ExcitedState]{}, illegal(msg, "no stepped infinite move from %s over %s", msg.Src, msg.Step)
	}

	var byCast [NumSticks + 1]ExcitedState
	for cast := range byCast {
		byCast[cast] = old.excite(msg.Src, msg.Step, msg.PlannedDirection, cast)
	}
	return Sticks(byCast), nil
}

// ApplyAfterHalfAcceptance finishes or abandons a stepped infinite move.
func ApplyAfterHalfAcceptance(old ExcitedState, msg AfterHalfAcceptance, config Config) (Probabilistic[HandNotResolved], error) {
	if !cerke.Occupied(old.Field, old.FlyingPieceSrc) || !cerke.Occupied(old.Field, old.FlyingPieceStep) {
		panic(fmt.Sprintf("transition: excited state with empty src %s or step %s", old.FlyingPieceSrc, old.FlyingPieceStep))
	}

	if !msg.HasDest {
		msg = Pass()
	}
	found := false
	for _, c := range old.Candidates(config) {
		if c == msg {
			found = true
			break
		}
	}
	if !found {
		return Probabilistic[HandNotResolved]{}, illegal(msg, "not reachable with a cast of %d", old.Cast)
	}

	ground := old.ground()
	steppedOnTam := cerke.HoldsTam(old.Field, old.FlyingPieceStep)
	if !msg.HasDest {
		return Pure(ground.pending(old.Field, steppedOnTam && !config.FailureToCompleteMoveExemptsSteppedTam)), nil
	}
	return completeMove(ground, msg, old.FlyingPieceSrc, msg.Dest, steppedOnTam, config)
}

// NoMovePossibleAtAll ends the game when the player to move has no legal
// submission. The side holding the majority wins.
func NoMovePossibleAtAll(old GroundState, config Config) (HandResolved, error) {
	if old.HasAnyMove(config) {
		return HandResolved{}, fmt.Errorf("%w: %s still has legal moves", ErrIllegalMove, old.WhoseTurn)
	}
	return HandResolved{Kind: ResolvedGameOver, Victor: old.Scores.WhichSideIsWinning(), Scores: old.Scores}, nil
}

func allOnBoard(coords ...cerke.Coord) bool {
	for _, c := range coords {
		if !c.Valid() {
			return false
		}
	}
	return true
}

func containsNormal(moves []NormalMove, m NormalMove) bool {
	for _, c := range moves {
		if c == m {
			return true
		}
	}
	return false
}

func containsPure(moves []PureMove, m PureMove) bool {
	for _, c := range moves {
		if c == m {
			return true
		}
	}
	return false
}
