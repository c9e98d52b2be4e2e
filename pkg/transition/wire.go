package transition

import (
	"fmt"

	"github.com/freeeve/cerke-arbiter/pkg/cerke"
)

// MessageKind says which of the three submission types a Message holds.
type MessageKind uint8

const (
	MessageNormalMove MessageKind = iota
	MessageInfAfterStep
	MessageAfterHalfAcceptance
)

// Message is any player submission.
type Message struct {
	Kind                MessageKind
	NormalMove          NormalMove
	InfAfterStep        InfAfterStep
	AfterHalfAcceptance AfterHalfAcceptance
}

// Wire layout of a 32-bit message word:
//
//	bits 29-31  tag
//	bit  28     tag 0 only: a destination follows
//	bits 0-27   up to four 7-bit square numbers, low field first
//
// tag 0 after-cast decision (dest), 1 src-dst (src, dest), 2 src-step-dst
// (src, step, dest), 3 placement (dest, prof in bits 7-10, colour in bit
// 11), 4 tam without step (src, first, second), 5 tam stepping during the
// former half (src, step, first, second), 6 tam stepping during the latter
// half (src, first, step, second), 7 stepped infinite move (src, step,
// planned). Every unused bit is zero, so each valid word decodes to
// exactly one message and re-encodes to itself.
const (
	tagAfterHalf uint32 = iota
	tagSrcDst
	tagSrcStepDst
	tagFromReserve
	tagTamNoStep
	tagTamFormer
	tagTamLatter
	tagInfAfterStep
)

const (
	tagShift    = 29
	hasDestBit  = uint32(1) << 28
	squareBits  = 7
	squareMask  = uint32(1)<<squareBits - 1
	payloadMask = uint32(1)<<28 - 1
)

// EncodeMessage packs a message into one 32-bit word.
func EncodeMessage(m Message) (uint32, error) {
	switch m.Kind {
	case MessageAfterHalfAcceptance:
		a := m.AfterHalfAcceptance
		if !a.HasDest {
			return tagAfterHalf << tagShift, nil
		}
		return packSquares(tagAfterHalf, hasDestBit, a.Dest)
	case MessageInfAfterStep:
		i := m.InfAfterStep
		return packSquares(tagInfAfterStep, 0, i.Src, i.Step, i.PlannedDirection)
	case MessageNormalMove:
		n := m.NormalMove
		switch n.Kind {
		case MoveSrcDst:
			return packSquares(tagSrcDst, 0, n.Src, n.Dest)
		case MoveSrcStepDst:
			return packSquares(tagSrcStepDst, 0, n.Src, n.Step, n.Dest)
		case MoveFromReserve:
			if int(n.Prof) >= cerke.NumProfessions || n.Color > cerke.Black {
				return 0, fmt.Errorf("wire: invalid piece %s %s", n.Color, n.Prof)
			}
			extra := uint32(n.Prof)<<squareBits | uint32(n.Color)<<(squareBits+4)
			return packSquares(tagFromReserve, extra, n.Dest)
		case MoveTamNoStep:
			return packSquares(tagTamNoStep, 0, n.Src, n.FirstDest, n.SecondDest)
		case MoveTamStepsDuringFormer:
			return packSquares(tagTamFormer, 0, n.Src, n.Step, n.FirstDest, n.SecondDest)
		case MoveTamStepsDuringLatter:
			return packSquares(tagTamLatter, 0, n.Src, n.FirstDest, n.Step, n.SecondDest)
		}
		return 0, fmt.Errorf("wire: unknown move kind %q", n.Kind)
	}
	return 0, fmt.Errorf("wire: unknown message kind %d", m.Kind)
}

func packSquares(tag, extra uint32, squares ...cerke.Coord) (uint32, error) {
	w := tag<<tagShift | extra
	for i, c := range squares {
		if !c.Valid() {
			return 0, fmt.Errorf("wire: square out of range: %d,%d", c.Row, c.Col)
		}
		w |= uint32(c.Index()) << (squareBits * i)
	}
	return w, nil
}

// DecodeMessage unpacks a word produced by EncodeMessage. ok is false for
// words no message encodes to.
func DecodeMessage(w uint32) (m Message, ok bool) {
	tag := w >> tagShift
	payload := w & (payloadMask | hasDestBit)

	squares := func(n int, extraMask uint32) ([]cerke.Coord, bool) {
		used := uint32(1)<<(squareBits*n) - 1
		if payload&^(used|extraMask) != 0 {
			return nil, false
		}
		out := make([]cerke.Coord, n)
		for i := range out {
			c, valid := cerke.CoordFromIndex(int(payload >> (squareBits * i) & squareMask))
			if !valid {
				return nil, false
			}
			out[i] = c
		}
		return out, true
	}

	switch tag {
	case tagAfterHalf:
		if payload == 0 {
			return Message{Kind: MessageAfterHalfAcceptance, AfterHalfAcceptance: Pass()}, true
		}
		if payload&hasDestBit == 0 {
			return Message{}, false
		}
		sq, valid := squares(1, hasDestBit)
		if !valid {
			return Message{}, false
		}
		return Message{Kind: MessageAfterHalfAcceptance, AfterHalfAcceptance: AcceptAt(sq[0])}, true
	case tagInfAfterStep:
		sq, valid := squares(3, 0)
		if !valid {
			return Message{}, false
		}
		return Message{Kind: MessageInfAfterStep, InfAfterStep: InfAfterStep{Src: sq[0], Step: sq[1], PlannedDirection: sq[2]}}, true
	case tagFromReserve:
		pieceMask := uint32(0x1f) << squareBits
		sq, valid := squares(1, pieceMask)
		if !valid {
			return Message{}, false
		}
		prof := cerke.Profession(payload >> squareBits & 0x0f)
		color := cerke.Color(payload >> (squareBits + 4) & 1)
		if int(prof) >= cerke.NumProfessions {
			return Message{}, false
		}
		return normal(NewFromReserve(color, prof, sq[0])), true
	}

	var n NormalMove
	switch tag {
	case tagSrcDst:
		sq, valid := squares(2, 0)
		if !valid {
			return Message{}, false
		}
		n = NewSrcDst(sq[0], sq[1])
	case tagSrcStepDst:
		sq, valid := squares(3, 0)
		if !valid {
			return Message{}, false
		}
		n = NewSrcStepDst(sq[0], sq[1], sq[2])
	case tagTamNoStep:
		sq, valid := squares(3, 0)
		if !valid {
			return Message{}, false
		}
		n = NewTamNoStep(sq[0], sq[1], sq[2])
	case tagTamFormer:
		sq, valid := squares(4, 0)
		if !valid {
			return Message{}, false
		}
		n = NewTamStepsDuringFormer(sq[0], sq[1], sq[2], sq[3])
	case tagTamLatter:
		sq, valid := squares(4, 0)
		if !valid {
			return Message{}, false
		}
		n = NewTamStepsDuringLatter(sq[0], sq[1], sq[2], sq[3])
	default:
		return Message{}, false
	}
	return normal(n), true
}

func normal(n NormalMove) Message {
	return Message{Kind: MessageNormalMove, NormalMove: n}
}
