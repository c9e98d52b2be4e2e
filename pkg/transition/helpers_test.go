package transition

import (
	"testing"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

var encodings = []cerke.Encoding{cerke.MapEncoding, cerke.DenseEncoding}

func sq(t *testing.T, s string) cerke.Coord {
	t.Helper()
	c, err := cerke.ParseCoord(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// groundWith builds a spring ground state at 20/20 and X1 holding only
// the given pieces.
func groundWith(t *testing.T, enc cerke.Encoding, side cerke.Side, pieces map[string]cerke.Piece) GroundState {
	t.Helper()
	f := enc.NewField()
	for s, p := range pieces {
		f.Put(sq(t, s), p)
	}
	return GroundState{
		Field:     f,
		WhoseTurn: side,
		Season:    Spring,
		Scores:    NewScores(),
		Rate:      X1,
	}
}

func iaPiece(c cerke.Color, p cerke.Profession) cerke.Piece { return cerke.NewPiece(c, p, cerke.IASide) }
func aPiece(c cerke.Color, p cerke.Profession) cerke.Piece  { return cerke.NewPiece(c, p, cerke.ASide) }

// only returns the single outcome of a pure distribution.
func only[T any](t *testing.T, p Probabilistic[T]) T {
	t.Helper()
	if p.Kind != KindPure {
		t.Fatalf("expected a pure distribution, got kind %d", p.Kind)
	}
	return p.Values()[0]
}

func mustApply(t *testing.T, s GroundState, m NormalMove, config Config) Probabilistic[HandNotResolved] {
	t.Helper()
	p, err := ApplyNormalMove(s, m, config)
	if err != nil {
		t.Fatalf("ApplyNormalMove(%s): %v", m.Describe(), err)
	}
	return p
}
