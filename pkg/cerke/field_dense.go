package cerke

type denseEncoding struct{}

func (denseEncoding) NewField() Field { return NewDenseField() }
func (denseEncoding) Name() string    { return "dense" }

// Square byte layout: 0 is empty, cellTam is the Tam, otherwise
// cellPiece | side<<5 | color<<4 | profession.
const (
	cellEmpty byte = 0
	cellTam   byte = 0x40
	cellPiece byte = 0x80
)

// DenseField packs the board into one byte per square. Cloning is a
// fixed-size copy, which keeps random playouts cheap.
type DenseField struct {
	cells    [BoardSize * BoardSize]byte
	reserves [2][]ColorProf
}

// NewDenseField returns an empty board with empty reserves.
func NewDenseField() *DenseField {
	return &DenseField{}
}

func packPiece(p Piece) byte {
	if p.Tam {
		return cellTam
	}
	return cellPiece | byte(p.Side)<<5 | byte(p.Color)<<4 | byte(p.Prof)
}

func unpackPiece(b byte) (Piece, bool) {
	switch {
	case b == cellEmpty:
		return Piece{}, false
	case b == cellTam:
		return TamPiece(), true
	}
	return Piece{
		Side:  Side(b >> 5 & 1),
		Color: Color(b >> 4 & 1),
		Prof:  Profession(b & 0x0f),
	}, true
}

func (f *DenseField) Get(c Coord) (Piece, bool) {
	return unpackPiece(f.cells[c.Index()])
}

func (f *DenseField) Put(c Coord, p Piece) {
	f.cells[c.Index()] = packPiece(p)
}

func (f *DenseField) Remove(c Coord) (Piece, bool) {
	p, ok := unpackPiece(f.cells[c.Index()])
	f.cells[c.Index()] = cellEmpty
	return p, ok
}

func (f *DenseField) Reserve(side Side) []ColorProf {
	return append([]ColorProf(nil), f.reserves[side]...)
}

func (f *DenseField) AddToReserve(side Side, cp ColorProf) {
	f.reserves[side] = append(f.reserves[side], cp)
}

func (f *DenseField) TakeFromReserve(side Side, cp ColorProf) bool {
	next, ok := takeFirst(f.reserves[side], cp)
	f.reserves[side] = next
	return ok
}

func (f *DenseField) Clone() Field {
	out := &DenseField{cells: f.cells}
	for side := range f.reserves {
		out.reserves[side] = append([]ColorProf(nil), f.reserves[side]...)
	}
	return out
}

func (f *DenseField) Encoding() Encoding { return DenseEncoding }
