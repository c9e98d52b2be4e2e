package cerke

import (
	"errors"
	"fmt"
)

// Field is the board plus both reserves. The state machine is written once
// against this interface; MapField and DenseField are its two encodings.
//
// Implementations are mutable. Callers that need an unchanged original must
// Clone first.
type Field interface {
	// Get returns the piece on c, if any.
	Get(c Coord) (Piece, bool)
	// Put places p on c, replacing whatever was there.
	Put(c Coord, p Piece)
	// Remove empties c and returns what was on it.
	Remove(c Coord) (Piece, bool)
	// Reserve returns a copy of the side's reserve in acquisition order.
	Reserve(side Side) []ColorProf
	// AddToReserve appends a captured piece to the side's reserve.
	AddToReserve(side Side, cp ColorProf)
	// TakeFromReserve removes one matching piece; false if there is none.
	TakeFromReserve(side Side, cp ColorProf) bool
	// Clone returns an independent copy in the same encoding.
	Clone() Field
	// Encoding returns the factory this field was created by.
	Encoding() Encoding
}

// Encoding creates empty fields of one representation.
type Encoding interface {
	NewField() Field
	Name() string
}

var (
	// MapEncoding stores occupied squares in a map.
	MapEncoding Encoding = mapEncoding{}
	// DenseEncoding stores the board as 81 packed bytes.
	DenseEncoding Encoding = denseEncoding{}
)

// EncodingByName looks up an encoding by the value of its Name method.
func EncodingByName(name string) (Encoding, error) {
	switch name {
	case MapEncoding.Name():
		return MapEncoding, nil
	case DenseEncoding.Name():
		return DenseEncoding, nil
	}
	return nil, fmt.Errorf("unknown field encoding %q", name)
}

var (
	ErrEmptySquare     = errors.New("square is empty")
	ErrOccupiedSquare  = errors.New("square is occupied")
	ErrNotYourPiece    = errors.New("piece belongs to the opponent")
	ErrTamNotMovable   = errors.New("tam cannot be moved as an ordinary piece")
	ErrCaptureTam      = errors.New("tam cannot be captured")
	ErrCaptureOwnPiece = errors.New("cannot capture own piece")
	ErrNotInReserve    = errors.New("piece not in reserve")
)

// Occupied reports whether c holds any piece, the Tam included.
func Occupied(f Field, c Coord) bool {
	_, ok := f.Get(c)
	return ok
}

// HoldsTam reports whether c holds the Tam.
func HoldsTam(f Field, c Coord) bool {
	p, ok := f.Get(c)
	return ok && p.Tam
}

// FindTam returns the square holding the Tam.
func FindTam(f Field) (Coord, bool) {
	for _, c := range AllCoords() {
		if HoldsTam(f, c) {
			return c, true
		}
	}
	return Coord{}, false
}

// MoveNonTam returns a copy of f with side's piece moved from src to dest.
// An opponent piece on dest is captured into side's reserve.
func MoveNonTam(f Field, src, dest Coord, side Side) (Field, error) {
	p, ok := f.Get(src)
	if !ok {
		return nil, fmt.Errorf("move from %s: %w", src, ErrEmptySquare)
	}
	if p.Tam {
		return nil, fmt.Errorf("move from %s: %w", src, ErrTamNotMovable)
	}
	if p.Side != side {
		return nil, fmt.Errorf("move from %s: %w", src, ErrNotYourPiece)
	}

	next := f.Clone()
	next.Remove(src)
	if target, occupied := next.Get(dest); occupied {
		switch {
		case target.Tam:
			return nil, fmt.Errorf("move to %s: %w", dest, ErrCaptureTam)
		case target.Side == side:
			return nil, fmt.Errorf("move to %s: %w", dest, ErrCaptureOwnPiece)
		}
		next.AddToReserve(side, target.ColorProf())
	}
	next.Put(dest, p)
	return next, nil
}

// Parachute returns a copy of f with cp taken from side's reserve and
// placed on the empty square dest.
func Parachute(f Field, cp ColorProf, side Side, dest Coord) (Field, error) {
	if Occupied(f, dest) {
		return nil, fmt.Errorf("place on %s: %w", dest, ErrOccupiedSquare)
	}
	next := f.Clone()
	if !next.TakeFromReserve(side, cp) {
		return nil, fmt.Errorf("place %s: %w", cp, ErrNotInReserve)
	}
	next.Put(dest, NewPiece(cp.Color, cp.Prof, side))
	return next, nil
}

// SameReserve reports whether two reserves hold the same multiset of pieces.
func SameReserve(a, b []ColorProf) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[ColorProf]int, len(a))
	for _, cp := range a {
		counts[cp]++
	}
	for _, cp := range b {
		counts[cp]--
		if counts[cp] < 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two fields have the same board and reserves,
// regardless of encoding.
func Equal(a, b Field) bool {
	for _, c := range AllCoords() {
		pa, oka := a.Get(c)
		pb, okb := b.Get(c)
		if oka != okb || pa != pb {
			return false
		}
	}
	return SameReserve(a.Reserve(IASide), b.Reserve(IASide)) &&
		SameReserve(a.Reserve(ASide), b.Reserve(ASide))
}

// Convert copies f into a fresh field of the given encoding.
func Convert(f Field, enc Encoding) Field {
	out := enc.NewField()
	for _, c := range AllCoords() {
		if p, ok := f.Get(c); ok {
			out.Put(c, p)
		}
	}
	for _, side := range []Side{IASide, ASide} {
		for _, cp := range f.Reserve(side) {
			out.AddToReserve(side, cp)
		}
	}
	return out
}

func takeFirst(reserve []ColorProf, cp ColorProf) ([]ColorProf, bool) {
	for i, have := range reserve {
		if have == cp {
			return append(reserve[:i:i], reserve[i+1:]...), true
		}
	}
	return reserve, false
}
