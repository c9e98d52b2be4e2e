package cerke

import "fmt"

// Side is one of the two players. IASide starts on rows AI..IA, ASide on rows A..I.
type Side uint8

const (
	IASide Side = iota
	ASide
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == IASide {
		return ASide
	}
	return IASide
}

func (s Side) String() string {
	if s == IASide {
		return "ia"
	}
	return "a"
}

// ParseSide parses the output of Side.String.
func ParseSide(s string) (Side, error) {
	switch s {
	case "ia":
		return IASide, nil
	case "a":
		return ASide, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(b []byte) error {
	parsed, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// forward is the row delta that moves a piece of side s toward the opponent.
func (s Side) forward() int {
	if s == IASide {
		return -1
	}
	return 1
}

// Color is the colour printed on a piece; it matters only for hands.
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "black"
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	switch string(b) {
	case "red":
		*c = Red
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", b)
	}
	return nil
}

// Profession is the kind of a non-Tam piece.
type Profession uint8

const (
	Vessel Profession = iota
	Pawn
	Rook
	Bishop
	Tiger
	Horse
	Clerk
	Shaman
	General
	King
)

// NumProfessions is the number of non-Tam professions.
const NumProfessions = 10

var professionNames = [NumProfessions]string{
	"vessel", "pawn", "rook", "bishop", "tiger", "horse", "clerk", "shaman", "general", "king",
}

func (p Profession) String() string {
	if int(p) >= NumProfessions {
		return fmt.Sprintf("Profession(%d)", p)
	}
	return professionNames[p]
}

// ParseProfession parses the output of Profession.String.
func ParseProfession(s string) (Profession, error) {
	for i, name := range professionNames {
		if name == s {
			return Profession(i), nil
		}
	}
	return 0, fmt.Errorf("unknown profession %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Profession) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Profession) UnmarshalText(b []byte) error {
	parsed, err := ParseProfession(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ColorProf identifies a piece in a reserve, where ownership is implied.
type ColorProf struct {
	Color Color      `json:"color"`
	Prof  Profession `json:"prof"`
}

func (cp ColorProf) String() string {
	return cp.Color.String() + " " + cp.Prof.String()
}

// Piece is the content of an occupied square: either the shared Tam or a
// piece owned by one side.
type Piece struct {
	Tam   bool
	Color Color
	Prof  Profession
	Side  Side
}

// TamPiece returns the Tam.
func TamPiece() Piece {
	return Piece{Tam: true}
}

// NewPiece returns a non-Tam piece owned by side.
func NewPiece(color Color, prof Profession, side Side) Piece {
	return Piece{Color: color, Prof: prof, Side: side}
}

// OwnedBy reports whether the piece is a non-Tam piece of side.
func (p Piece) OwnedBy(side Side) bool {
	return !p.Tam && p.Side == side
}

// ColorProf strips ownership, as happens on capture.
func (p Piece) ColorProf() ColorProf {
	return ColorProf{Color: p.Color, Prof: p.Prof}
}

func (p Piece) String() string {
	if p.Tam {
		return "tam"
	}
	return fmt.Sprintf("%s %s %s", p.Side, p.Color, p.Prof)
}
