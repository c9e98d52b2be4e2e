package transition

import (
	"fmt"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

// steppingTamScore is the raw score of the hand for stepping over the Tam.
const steppingTamScore = -5

// Resolve scores a finished move. Without a hand the turn passes, with the
// Tam penalty applied once; a penalty that empties a side's holding ends
// the game on the spot. With a hand the mover chooses between
// continuing the season at a doubled rate and ending it with the hand
// scored.
func Resolve(s HandNotResolved, config Config) HandResolved {
	steppedTamHand := s.SteppedOnTam && config.SteppingTamIsAHand

	newHandScore, hasNewHand := newlyAcquiredHand(s)

	if !steppedTamHand && !hasNewHand && !s.TamPenaltyIsAHand {
		scores, victor := s.Scores.Edit(s.TamPenalty, s.WhoseTurn, s.Rate)
		if victor == nil {
			return HandResolved{
				Kind: ResolvedTurnPasses,
				Next: GroundState{
					Field:                 s.Field,
					WhoseTurn:             s.WhoseTurn.Opponent(),
					Season:                s.Season,
					Scores:                scores,
					Rate:                  s.Rate,
					TamHasMovedPreviously: s.MovedTamThisTurn,
				},
			}
		}
		return HandResolved{Kind: ResolvedGameOver, Victor: *victor, Scores: scores}
	}

	raw := s.TamPenalty
	if steppedTamHand {
		raw += steppingTamScore
	}
	if hasNewHand {
		raw += newHandScore
	}

	return HandResolved{
		Kind: ResolvedHandExists,
		IfContinue: GroundState{
			Field:                 s.Field,
			WhoseTurn:             s.WhoseTurn.Opponent(),
			Season:                s.Season,
			Scores:                s.Scores,
			Rate:                  s.Rate.Next(),
			TamHasMovedPreviously: s.MovedTamThisTurn,
		},
		IfEndSeason: endSeason(s, raw),
	}
}

// newlyAcquiredHand reports the mover's full hand score when the move
// completed a hand the reserve did not hold before.
func newlyAcquiredHand(s HandNotResolved) (int, bool) {
	before := s.previousReserve()
	after := s.Field.Reserve(s.WhoseTurn)
	if cerke.SameReserve(before, after) {
		return 0, false
	}
	oldHands, err := cerke.DetectHands(before)
	if err != nil {
		panic(fmt.Sprintf("transition: scoring reserve before the move: %v", err))
	}
	newHands, err := cerke.DetectHands(after)
	if err != nil {
		panic(fmt.Sprintf("transition: scoring reserve after the move: %v", err))
	}
	if len(cerke.NewHands(oldHands, newHands)) == 0 {
		return 0, false
	}
	return newHands.Score, true
}

func endSeason(s HandNotResolved, raw int) IfEndSeason {
	scores, victor := s.Scores.Edit(raw, s.WhoseTurn, s.Rate)
	if victor != nil {
		return IfEndSeason{GameOver: true, Victor: *victor, Scores: scores}
	}
	next, ok := s.Season.Next()
	if !ok {
		return IfEndSeason{GameOver: true, Victor: scores.WhichSideIsWinning(), Scores: scores}
	}
	return IfEndSeason{NextSeason: BeginningOfSeason(next, scores, s.Field.Encoding())}
}

// BeginningOfSeason returns the opening positions of a season: the initial
// layout with empty reserves at X1, first mover still to be drawn.
func BeginningOfSeason(season Season, scores Scores, enc cerke.Encoding) Probabilistic[GroundState] {
	start := func(side cerke.Side) GroundState {
		return GroundState{
			Field:     cerke.InitialField(enc),
			WhoseTurn: side,
			Season:    season,
			Scores:    scores,
			Rate:      X1,
		}
	}
	return WhoGoesFirst(start(cerke.IASide), start(cerke.ASide))
}

// InitialState returns the start of a game: spring, 20 points each.
func InitialState(enc cerke.Encoding) Probabilistic[GroundState] {
	return BeginningOfSeason(Spring, NewScores(), enc)
}
