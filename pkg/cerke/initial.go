package cerke

// Initial layout, written from the ASide back rank (row A) for ASide.
// IASide mirrors it on rows IA, AU, AI with colours swapped.
var (
	backRank = [BoardSize]ColorProf{
		{Black, Clerk}, {Black, Horse}, {Black, Bishop}, {Black, General}, {Red, King},
		{Red, General}, {Red, Bishop}, {Red, Horse}, {Red, Clerk},
	}
	// Columns N, Z and C of the second rank stay empty.
	secondRank = map[Column]ColorProf{
		ColK: {Black, Shaman}, ColL: {Black, Rook}, ColT: {Black, Tiger},
		ColX: {Red, Tiger}, ColM: {Red, Rook}, ColP: {Red, Shaman},
	}
	frontRank = [BoardSize]ColorProf{
		{Red, Pawn}, {Black, Pawn}, {Red, Pawn}, {Black, Pawn}, {Black, Vessel},
		{Red, Pawn}, {Black, Pawn}, {Red, Pawn}, {Black, Pawn},
	}
)

// TamStart is the square the Tam occupies at the start of every season.
var TamStart = Coord{Row: RowO, Col: ColZ}

// PlaceInitial fills f with the starting layout and returns it. f is
// expected to be empty.
func PlaceInitial(f Field) Field {
	place := func(row Row, col Column, cp ColorProf, side Side) {
		if side == IASide {
			cp.Color = otherColor(cp.Color)
		}
		f.Put(Coord{Row: row, Col: col}, NewPiece(cp.Color, cp.Prof, side))
	}
	for i := 0; i < BoardSize; i++ {
		col := Column(i)
		place(RowA, col, backRank[i], ASide)
		place(RowI, col, frontRank[i], ASide)
		place(RowIA, col, backRank[i], IASide)
		place(RowAI, col, frontRank[i], IASide)
	}
	for col, cp := range secondRank {
		place(RowE, col, cp, ASide)
		place(RowAU, col, cp, IASide)
	}
	f.Put(TamStart, TamPiece())
	return f
}

// InitialField returns the starting layout in the given encoding.
func InitialField(enc Encoding) Field {
	return PlaceInitial(enc.NewField())
}

func otherColor(c Color) Color {
	if c == Red {
		return Black
	}
	return Red
}
