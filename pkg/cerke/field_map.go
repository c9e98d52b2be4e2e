package cerke

type mapEncoding struct{}

func (mapEncoding) NewField() Field { return NewMapField() }
func (mapEncoding) Name() string    { return "map" }

// MapField keeps occupied squares in a map. It is the straightforward
// encoding and the reference the dense one is tested against.
type MapField struct {
	board    map[Coord]Piece
	reserves [2][]ColorProf
}

// NewMapField returns an empty board with empty reserves.
func NewMapField() *MapField {
	return &MapField{board: make(map[Coord]Piece)}
}

func (f *MapField) Get(c Coord) (Piece, bool) {
	p, ok := f.board[c]
	return p, ok
}

func (f *MapField) Put(c Coord, p Piece) {
	f.board[c] = p
}

func (f *MapField) Remove(c Coord) (Piece, bool) {
	p, ok := f.board[c]
	delete(f.board, c)
	return p, ok
}

func (f *MapField) Reserve(side Side) []ColorProf {
	return append([]ColorProf(nil), f.reserves[side]...)
}

func (f *MapField) AddToReserve(side Side, cp ColorProf) {
	f.reserves[side] = append(f.reserves[side], cp)
}

func (f *MapField) TakeFromReserve(side Side, cp ColorProf) bool {
	next, ok := takeFirst(f.reserves[side], cp)
	f.reserves[side] = next
	return ok
}

func (f *MapField) Clone() Field {
	out := &MapField{board: make(map[Coord]Piece, len(f.board))}
	for c, p := range f.board {
		out.board[c] = p
	}
	for side := range f.reserves {
		out.reserves[side] = append([]ColorProf(nil), f.reserves[side]...)
	}
	return out
}

func (f *MapField) Encoding() Encoding { return MapEncoding }
