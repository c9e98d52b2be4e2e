package cerke

import "fmt"

// Row is a board row, counted from the ASide edge.
type Row uint8

const (
	RowA Row = iota
	RowE
	RowI
	RowU
	RowO
	RowY
	RowAI
	RowAU
	RowIA
)

// Column is a board column, counted from the left as seen by IASide.
type Column uint8

const (
	ColK Column = iota
	ColL
	ColN
	ColT
	ColZ
	ColX
	ColC
	ColM
	ColP
)

// BoardSize is the number of rows and of columns.
const BoardSize = 9

var rowNames = [BoardSize]string{"A", "E", "I", "U", "O", "Y", "AI", "AU", "IA"}

var columnNames = [BoardSize]string{"K", "L", "N", "T", "Z", "X", "C", "M", "P"}

func (r Row) String() string {
	if int(r) >= BoardSize {
		return fmt.Sprintf("Row(%d)", r)
	}
	return rowNames[r]
}

func (c Column) String() string {
	if int(c) >= BoardSize {
		return fmt.Sprintf("Column(%d)", c)
	}
	return columnNames[c]
}

// Coord is a square on the 9x9 board.
type Coord struct {
	Row Row
	Col Column
}

// NewCoord builds a coordinate from a column and a row.
func NewCoord(col Column, row Row) Coord {
	return Coord{Row: row, Col: col}
}

// String renders the coordinate as column then row, e.g. "ZO".
func (c Coord) String() string {
	return c.Col.String() + c.Row.String()
}

// Valid reports whether the coordinate lies on the board.
func (c Coord) Valid() bool {
	return int(c.Row) < BoardSize && int(c.Col) < BoardSize
}

// Index returns the square number 0..80 in row-major order.
func (c Coord) Index() int {
	return int(c.Row)*BoardSize + int(c.Col)
}

// CoordFromIndex is the inverse of Index.
func CoordFromIndex(i int) (Coord, bool) {
	if i < 0 || i >= BoardSize*BoardSize {
		return Coord{}, false
	}
	return Coord{Row: Row(i / BoardSize), Col: Column(i % BoardSize)}, true
}

// Offset returns the coordinate dr rows and dc columns away, if it is on the board.
func (c Coord) Offset(dr, dc int) (Coord, bool) {
	r := int(c.Row) + dr
	col := int(c.Col) + dc
	if r < 0 || r >= BoardSize || col < 0 || col >= BoardSize {
		return Coord{}, false
	}
	return Coord{Row: Row(r), Col: Column(col)}, true
}

// ParseCoord parses the column-then-row notation produced by String.
func ParseCoord(s string) (Coord, error) {
	if len(s) < 2 {
		return Coord{}, fmt.Errorf("coord %q: too short", s)
	}
	col := -1
	for i, name := range columnNames {
		if name == s[:1] {
			col = i
			break
		}
	}
	if col < 0 {
		return Coord{}, fmt.Errorf("coord %q: unknown column %q", s, s[:1])
	}
	for i, name := range rowNames {
		if name == s[1:] {
			return Coord{Row: Row(i), Col: Column(col)}, nil
		}
	}
	return Coord{}, fmt.Errorf("coord %q: unknown row %q", s, s[1:])
}

// MarshalText implements encoding.TextMarshaler.
func (c Coord) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("coord out of range: %d,%d", c.Row, c.Col)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Coord) UnmarshalText(b []byte) error {
	parsed, err := ParseCoord(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// AllCoords returns every square in row-major order.
func AllCoords() []Coord {
	out := make([]Coord, 0, BoardSize*BoardSize)
	for i := 0; i < BoardSize*BoardSize; i++ {
		c, _ := CoordFromIndex(i)
		out = append(out, c)
	}
	return out
}

var waterSquares = map[Coord]bool{
	{Row: RowO, Col: ColN}:  true,
	{Row: RowO, Col: ColT}:  true,
	{Row: RowO, Col: ColZ}:  true,
	{Row: RowO, Col: ColX}:  true,
	{Row: RowO, Col: ColC}:  true,
	{Row: RowI, Col: ColZ}:  true,
	{Row: RowU, Col: ColZ}:  true,
	{Row: RowY, Col: ColZ}:  true,
	{Row: RowAI, Col: ColZ}: true,
}

// IsWater reports whether the square belongs to the cross-shaped water zone.
func IsWater(c Coord) bool {
	return waterSquares[c]
}

// Distance is the king-move distance between two squares.
func Distance(a, b Coord) int {
	return max(absInt(int(a.Row)-int(b.Row)), absInt(int(a.Col)-int(b.Col)))
}

// SameDirection reports whether a and b lie on the same orthogonal or
// diagonal ray leaving origin. Squares equal to origin are on no ray.
func SameDirection(origin, a, b Coord) bool {
	ra, ca, ok := unitDirection(origin, a)
	if !ok {
		return false
	}
	rb, cb, ok := unitDirection(origin, b)
	if !ok {
		return false
	}
	return ra == rb && ca == cb
}

func unitDirection(from, to Coord) (int, int, bool) {
	dr := int(to.Row) - int(from.Row)
	dc := int(to.Col) - int(from.Col)
	if dr == 0 && dc == 0 {
		return 0, 0, false
	}
	if dr != 0 && dc != 0 && absInt(dr) != absInt(dc) {
		return 0, 0, false
	}
	return sign(dr), sign(dc), true
}

// Neighbors returns the up to eight squares adjacent to c.
func Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, 8)
	for _, d := range kingVectors {
		if n, ok := c.Offset(d.dr, d.dc); ok {
			out = append(out, n)
		}
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
