package cerke

import (
	"fmt"
	"strings"
)

// Field notation: nine rows from A to IA separated by '/', then the IASide
// reserve and the ASide reserve, space separated.
//
//	row     := (digit | "*" | piece)*     digit = run of empty squares
//	piece   := side color prof            e.g. "abK" = ASide black king
//	reserve := "-" | (color prof)+        e.g. "rPbH"
//
// side is 'i' or 'a', color is 'r' or 'b', prof is one of VPRBTHCSGK.

const profLetters = "VPRBTHCSGK"

var sideLetters = map[Side]byte{IASide: 'i', ASide: 'a'}

var colorLetters = map[Color]byte{Red: 'r', Black: 'b'}

// EncodeField serializes a field. The output is deterministic and
// independent of the encoding.
func EncodeField(f Field) string {
	var b strings.Builder
	b.Grow(256)

	for r := 0; r < BoardSize; r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		empty := 0
		for c := 0; c < BoardSize; c++ {
			p, ok := f.Get(Coord{Row: Row(r), Col: Column(c)})
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			if p.Tam {
				b.WriteByte('*')
				continue
			}
			b.WriteByte(sideLetters[p.Side])
			b.WriteByte(colorLetters[p.Color])
			b.WriteByte(profLetters[p.Prof])
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
	}

	for _, side := range []Side{IASide, ASide} {
		b.WriteByte(' ')
		encodeReserve(&b, f.Reserve(side))
	}
	return b.String()
}

func encodeReserve(b *strings.Builder, reserve []ColorProf) {
	if len(reserve) == 0 {
		b.WriteByte('-')
		return
	}
	for _, cp := range reserve {
		b.WriteByte(colorLetters[cp.Color])
		b.WriteByte(profLetters[cp.Prof])
	}
}

// DecodeField parses field notation into a new field of the given encoding.
func DecodeField(s string, enc Encoding) (Field, error) {
	parts := strings.Split(s, " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("field notation: expected board and two reserves, got %d sections", len(parts))
	}
	rows := strings.Split(parts[0], "/")
	if len(rows) != BoardSize {
		return nil, fmt.Errorf("field notation: expected %d rows, got %d", BoardSize, len(rows))
	}

	f := enc.NewField()
	for r, row := range rows {
		if err := decodeRow(f, Row(r), row); err != nil {
			return nil, fmt.Errorf("field notation: row %s: %w", Row(r), err)
		}
	}
	for i, side := range []Side{IASide, ASide} {
		if err := decodeReserve(f, side, parts[1+i]); err != nil {
			return nil, fmt.Errorf("field notation: %s reserve: %w", side, err)
		}
	}
	return f, nil
}

func decodeRow(f Field, row Row, s string) error {
	col := 0
	for i := 0; i < len(s); {
		if col >= BoardSize {
			return fmt.Errorf("more than %d squares", BoardSize)
		}
		ch := s[i]
		switch {
		case ch >= '1' && ch <= '9':
			col += int(ch - '0')
			i++
		case ch == '*':
			f.Put(Coord{Row: row, Col: Column(col)}, TamPiece())
			col++
			i++
		default:
			if i+3 > len(s) {
				return fmt.Errorf("truncated piece %q", s[i:])
			}
			p, err := parsePiece(s[i : i+3])
			if err != nil {
				return err
			}
			f.Put(Coord{Row: row, Col: Column(col)}, p)
			col++
			i += 3
		}
	}
	if col != BoardSize {
		return fmt.Errorf("expected %d squares, got %d", BoardSize, col)
	}
	return nil
}

func parsePiece(tok string) (Piece, error) {
	var side Side
	switch tok[0] {
	case 'i':
		side = IASide
	case 'a':
		side = ASide
	default:
		return Piece{}, fmt.Errorf("invalid side %q in %q", tok[0], tok)
	}
	cp, err := parseColorProf(tok[1:])
	if err != nil {
		return Piece{}, err
	}
	return NewPiece(cp.Color, cp.Prof, side), nil
}

func parseColorProf(tok string) (ColorProf, error) {
	var color Color
	switch tok[0] {
	case 'r':
		color = Red
	case 'b':
		color = Black
	default:
		return ColorProf{}, fmt.Errorf("invalid color %q in %q", tok[0], tok)
	}
	prof := strings.IndexByte(profLetters, tok[1])
	if prof < 0 {
		return ColorProf{}, fmt.Errorf("invalid profession %q in %q", tok[1], tok)
	}
	return ColorProf{Color: color, Prof: Profession(prof)}, nil
}

func decodeReserve(f Field, side Side, s string) error {
	if s == "-" {
		return nil
	}
	if len(s)%2 != 0 {
		return fmt.Errorf("odd length %d", len(s))
	}
	for i := 0; i < len(s); i += 2 {
		cp, err := parseColorProf(s[i : i+2])
		if err != nil {
			return err
		}
		f.AddToReserve(side, cp)
	}
	return nil
}
