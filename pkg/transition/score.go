package transition

import "github.com/freeeve/cerke-arbiter/pkg/cerke"

const (
	// TotalScore is the size of the point pool shared by both sides.
	TotalScore = 40
	// InitialScore is each side's holding at the start of a game.
	InitialScore = TotalScore / 2
)

// Scores is the point pool. IA + A == TotalScore always holds.
type Scores struct {
	IA int `json:"ia"`
	A  int `json:"a"`
}

// NewScores returns the opening 20/20 split.
func NewScores() Scores {
	return Scores{IA: InitialScore, A: TotalScore - InitialScore}
}

// Victor is the outcome of a finished game. Draw is set when neither side
// holds the majority; Winner is meaningless then.
type Victor struct {
	Winner cerke.Side `json:"winner"`
	Draw   bool       `json:"draw"`
}

// Winner returns a decisive Victor.
func Winner(side cerke.Side) Victor {
	return Victor{Winner: side}
}

// DrawVictor returns the Victor for a tied game.
func DrawVictor() Victor {
	return Victor{Draw: true}
}

func (v Victor) String() string {
	if v.Draw {
		return "draw"
	}
	return v.Winner.String()
}

// Edit moves raw*rate points toward side (away from it if raw is negative).
// When a side's holding reaches the whole pool or nothing, the game is over
// and the returned Victor is non-nil.
func (s Scores) Edit(raw int, side cerke.Side, rate Rate) (Scores, *Victor) {
	delta := raw * rate.Num()
	if side == cerke.ASide {
		delta = -delta
	}
	ia := min(max(s.IA+delta, 0), TotalScore)
	switch ia {
	case TotalScore:
		v := Winner(cerke.IASide)
		return Scores{IA: TotalScore, A: 0}, &v
	case 0:
		v := Winner(cerke.ASide)
		return Scores{IA: 0, A: TotalScore}, &v
	}
	return Scores{IA: ia, A: TotalScore - ia}, nil
}

// WhichSideIsWinning names the side holding the majority, or a draw.
func (s Scores) WhichSideIsWinning() Victor {
	switch {
	case s.IA > TotalScore-s.IA:
		return Winner(cerke.IASide)
	case s.IA < TotalScore-s.IA:
		return Winner(cerke.ASide)
	}
	return DrawVictor()
}
