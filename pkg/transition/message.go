package transition

import (
	"fmt"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

// NormalMoveKind distinguishes the moves that complete within one submission.
type NormalMoveKind string

const (
	MoveSrcDst               NormalMoveKind = "src_dst"
	MoveSrcStepDst           NormalMoveKind = "src_step_dst"
	MoveFromReserve          NormalMoveKind = "from_reserve"
	MoveTamNoStep            NormalMoveKind = "tam_no_step"
	MoveTamStepsDuringFormer NormalMoveKind = "tam_steps_during_former"
	MoveTamStepsDuringLatter NormalMoveKind = "tam_steps_during_latter"
)

// IsTamMove reports whether the kind moves the Tam.
func (k NormalMoveKind) IsTamMove() bool {
	return k == MoveTamNoStep || k == MoveTamStepsDuringFormer || k == MoveTamStepsDuringLatter
}

// NormalMove is a move resolved without an intermediate stick cast. Build
// it with the constructors so that fields unused by its kind stay zero and
// moves compare with ==.
type NormalMove struct {
	Kind       NormalMoveKind   `json:"kind"`
	Src        cerke.Coord      `json:"src"`
	Step       cerke.Coord      `json:"step"`
	Dest       cerke.Coord      `json:"dest"`
	FirstDest  cerke.Coord      `json:"firstDest"`
	SecondDest cerke.Coord      `json:"secondDest"`
	Color      cerke.Color      `json:"color"`
	Prof       cerke.Profession `json:"prof"`
}

// NewSrcDst moves a piece directly from src to dest.
func NewSrcDst(src, dest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveSrcDst, Src: src, Dest: dest}
}

// NewSrcStepDst moves a piece over the occupied step square to dest.
func NewSrcStepDst(src, step, dest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveSrcStepDst, Src: src, Step: step, Dest: dest}
}

// NewFromReserve places a reserve piece on dest.
func NewFromReserve(color cerke.Color, prof cerke.Profession, dest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveFromReserve, Color: color, Prof: prof, Dest: dest}
}

// NewTamNoStep moves the Tam twice without stepping.
func NewTamNoStep(src, firstDest, secondDest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveTamNoStep, Src: src, FirstDest: firstDest, SecondDest: secondDest}
}

// NewTamStepsDuringFormer moves the Tam over step on its way to firstDest.
func NewTamStepsDuringFormer(src, step, firstDest, secondDest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveTamStepsDuringFormer, Src: src, Step: step, FirstDest: firstDest, SecondDest: secondDest}
}

// NewTamStepsDuringLatter moves the Tam over step on its way to secondDest.
func NewTamStepsDuringLatter(src, firstDest, step, secondDest cerke.Coord) NormalMove {
	return NormalMove{Kind: MoveTamStepsDuringLatter, Src: src, FirstDest: firstDest, Step: step, SecondDest: secondDest}
}

// Normalize rebuilds m with its constructor, clearing fields its kind
// does not use.
func (m NormalMove) Normalize() NormalMove {
	switch m.Kind {
	case MoveSrcDst:
		return NewSrcDst(m.Src, m.Dest)
	case MoveSrcStepDst:
		return NewSrcStepDst(m.Src, m.Step, m.Dest)
	case MoveFromReserve:
		return NewFromReserve(m.Color, m.Prof, m.Dest)
	case MoveTamNoStep:
		return NewTamNoStep(m.Src, m.FirstDest, m.SecondDest)
	case MoveTamStepsDuringFormer:
		return NewTamStepsDuringFormer(m.Src, m.Step, m.FirstDest, m.SecondDest)
	case MoveTamStepsDuringLatter:
		return NewTamStepsDuringLatter(m.Src, m.FirstDest, m.Step, m.SecondDest)
	}
	return m
}

// Describe returns a short human-readable form of the move.
func (m NormalMove) Describe() string {
	switch m.Kind {
	case MoveSrcDst:
		return fmt.Sprintf("%s-%s", m.Src, m.Dest)
	case MoveSrcStepDst:
		return fmt.Sprintf("%s-%s-%s", m.Src, m.Step, m.Dest)
	case MoveFromReserve:
		return fmt.Sprintf("%s %s@%s", m.Color, m.Prof, m.Dest)
	case MoveTamNoStep:
		return fmt.Sprintf("tam %s-%s-%s", m.Src, m.FirstDest, m.SecondDest)
	case MoveTamStepsDuringFormer:
		return fmt.Sprintf("tam %s-%s-%s-%s", m.Src, m.Step, m.FirstDest, m.SecondDest)
	case MoveTamStepsDuringLatter:
		return fmt.Sprintf("tam %s-%s-%s-%s", m.Src, m.FirstDest, m.Step, m.SecondDest)
	}
	return fmt.Sprintf("unknown move %q", m.Kind)
}

// InfAfterStep declares a stepped move along a ray whose reach is decided
// by a stick cast. PlannedDirection is the announced destination.
type InfAfterStep struct {
	Src              cerke.Coord `json:"src"`
	Step             cerke.Coord `json:"step"`
	PlannedDirection cerke.Coord `json:"plannedDirection"`
}

// Describe returns a short human-readable form of the declaration.
func (m InfAfterStep) Describe() string {
	return fmt.Sprintf("%s-%s->%s", m.Src, m.Step, m.PlannedDirection)
}

// AfterHalfAcceptance is the decision made after the cast: finish the move
// on Dest, or give it up when HasDest is false.
type AfterHalfAcceptance struct {
	Dest    cerke.Coord `json:"dest"`
	HasDest bool        `json:"hasDest"`
}

// Pass gives up a stepped move after its cast.
func Pass() AfterHalfAcceptance {
	return AfterHalfAcceptance{}
}

// AcceptAt finishes a stepped move on dest.
func AcceptAt(dest cerke.Coord) AfterHalfAcceptance {
	return AfterHalfAcceptance{Dest: dest, HasDest: true}
}

// Describe returns a short human-readable form of the decision.
func (m AfterHalfAcceptance) Describe() string {
	if !m.HasDest {
		return "pass"
	}
	return "accept " + m.Dest.String()
}

// PureMove is an entry of the ground-state candidate list: either a
// normal move or an infinite-after-step declaration.
type PureMove struct {
	IsInfAfterStep bool
	Normal         NormalMove
	InfAfterStep   InfAfterStep
}

// Describe returns a short human-readable form of the move.
func (m PureMove) Describe() string {
	if m.IsInfAfterStep {
		return m.InfAfterStep.Describe()
	}
	return m.Normal.Describe()
}

// FromCandidate converts a generator candidate into its message form.
func FromCandidate(c cerke.Candidate) PureMove {
	switch c.Kind {
	case cerke.MoveFromReserve:
		return PureMove{Normal: NewFromReserve(c.Piece.Color, c.Piece.Prof, c.Dest)}
	case cerke.MoveSrcDst:
		return PureMove{Normal: NewSrcDst(c.Src, c.Dest)}
	case cerke.MoveSrcStepDst:
		return PureMove{Normal: NewSrcStepDst(c.Src, c.Step, c.Dest)}
	case cerke.MoveInfAfterStep:
		return PureMove{IsInfAfterStep: true, InfAfterStep: InfAfterStep{Src: c.Src, Step: c.Step, PlannedDirection: c.Dest}}
	case cerke.MoveTamNoStep:
		return PureMove{Normal: NewTamNoStep(c.Src, c.FirstDest, c.SecondDest)}
	case cerke.MoveTamStepsDuringFormer:
		return PureMove{Normal: NewTamStepsDuringFormer(c.Src, c.Step, c.FirstDest, c.SecondDest)}
	case cerke.MoveTamStepsDuringLatter:
		return PureMove{Normal: NewTamStepsDuringLatter(c.Src, c.FirstDest, c.Step, c.SecondDest)}
	}
	panic(fmt.Sprintf("transition: unknown candidate kind %d", c.Kind))
}
