package cerke

// MoveKind distinguishes the shapes of a candidate move.
type MoveKind uint8

const (
	// MoveFromReserve places a reserve piece on an empty square.
	MoveFromReserve MoveKind = iota
	// MoveSrcDst moves a piece directly.
	MoveSrcDst
	// MoveSrcStepDst moves a piece onto an occupied neighbour, then by a
	// finite vector from there.
	MoveSrcStepDst
	// MoveInfAfterStep moves a piece onto an occupied neighbour, then along
	// a ray whose length is bounded by a stick cast. Dest is the planned square.
	MoveInfAfterStep
	MoveTamNoStep
	MoveTamStepsDuringFormer
	MoveTamStepsDuringLatter
)

// IsTamMove reports whether the kind moves the Tam.
func (k MoveKind) IsTamMove() bool {
	return k == MoveTamNoStep || k == MoveTamStepsDuringFormer || k == MoveTamStepsDuringLatter
}

// Candidate is a legal move as seen by the generator. Only the fields that
// belong to its Kind are set.
type Candidate struct {
	Kind       MoveKind
	Src        Coord
	Step       Coord
	Dest       Coord
	FirstDest  Coord
	SecondDest Coord
	Piece      ColorProf
	// WaterEntry marks non-Vessel moves from dry land into water.
	WaterEntry bool
}

type vec struct{ dr, dc int }

var (
	orthogonal  = []vec{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	diagonal    = []vec{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	sideways    = []vec{{0, -1}, {0, 1}}
	kingVectors = []vec{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightJumps = []vec{
		{-2, -1}, {-2, 1}, {2, -1}, {2, 1},
		{-1, -2}, {-1, 2}, {1, -2}, {1, 2},
	}
	bishopJumps = []vec{{-2, -2}, {-2, 2}, {2, -2}, {2, 2}}
)

// movement returns the finite and infinite vectors of a profession. tamHue
// is true when the piece moves from a tam hue square: water, or the square
// it stepped on when that square holds the Tam and the rules count the Tam
// itself as a tam hue.
func movement(prof Profession, side Side, tamHue bool) (finite, infinite []vec) {
	fw := side.forward()
	forward := vec{fw, 0}
	back := vec{-fw, 0}

	switch prof {
	case Vessel:
		if tamHue {
			return nil, orthogonal
		}
		return nil, []vec{forward}
	case Pawn:
		if tamHue {
			return orthogonal, nil
		}
		return []vec{forward}, nil
	case Rook:
		if tamHue {
			return nil, kingVectors
		}
		return nil, orthogonal
	case Bishop:
		if tamHue {
			return nil, diagonal
		}
		return bishopJumps, nil
	case Tiger:
		if tamHue {
			return nil, diagonal
		}
		return diagonal, nil
	case Horse:
		if tamHue {
			return knightJumps, diagonal
		}
		return knightJumps, nil
	case Clerk:
		if tamHue {
			return nil, orthogonal
		}
		return sideways, []vec{forward, back}
	case Shaman:
		if tamHue {
			return nil, kingVectors
		}
		return []vec{forward, back}, sideways
	case General:
		if tamHue {
			return kingVectors, nil
		}
		return []vec{forward, {fw, -1}, {fw, 1}, {0, -1}, {0, 1}, back}, nil
	}
	return kingVectors, nil
}

// Candidates lists every legal move for side: placements from the reserve
// and moves on the board, Tam moves included. The result depends only on
// its arguments.
func Candidates(f Field, side Side, tamItselfIsTamHue bool) (fromReserve, onBoard []Candidate) {
	fromReserve = reserveCandidates(f, side)
	for _, src := range AllCoords() {
		p, ok := f.Get(src)
		if !ok {
			continue
		}
		if p.Tam {
			onBoard = append(onBoard, tamCandidates(f, src)...)
			continue
		}
		if p.Side != side {
			continue
		}
		onBoard = append(onBoard, pieceCandidates(f, src, p, tamItselfIsTamHue)...)
	}
	return fromReserve, onBoard
}

func reserveCandidates(f Field, side Side) []Candidate {
	var out []Candidate
	seen := make(map[ColorProf]bool)
	for _, cp := range f.Reserve(side) {
		if seen[cp] {
			continue
		}
		seen[cp] = true
		for _, dest := range AllCoords() {
			if Occupied(f, dest) {
				continue
			}
			out = append(out, Candidate{Kind: MoveFromReserve, Dest: dest, Piece: cp})
		}
	}
	return out
}

func isTamHue(f Field, c Coord, tamItselfIsTamHue bool) bool {
	return IsWater(c) || (tamItselfIsTamHue && HoldsTam(f, c))
}

// EntersWater reports whether a move of prof from src to dest needs the
// water-entry cast.
func EntersWater(prof Profession, src, dest Coord) bool {
	return prof != Vessel && !IsWater(src) && IsWater(dest)
}

// landable reports whether side may end a move on dest, with vacated
// treated as empty.
func landable(f Field, dest, vacated Coord, side Side) bool {
	if dest == vacated {
		return true
	}
	p, ok := f.Get(dest)
	if !ok {
		return true
	}
	return !p.Tam && p.Side != side
}

// walkRay emits each square along v from start until blocked. A square
// holding an opponent piece is emitted and ends the ray.
func walkRay(f Field, start Coord, v vec, vacated Coord, side Side, emit func(Coord)) {
	cur := start
	for {
		next, ok := cur.Offset(v.dr, v.dc)
		if !ok {
			return
		}
		cur = next
		if cur == vacated {
			emit(cur)
			continue
		}
		p, occupied := f.Get(cur)
		if !occupied {
			emit(cur)
			continue
		}
		if !p.Tam && p.Side != side {
			emit(cur)
		}
		return
	}
}

func pieceCandidates(f Field, src Coord, p Piece, tamItselfIsTamHue bool) []Candidate {
	var out []Candidate
	side := p.Side

	finite, infinite := movement(p.Prof, side, isTamHue(f, src, tamItselfIsTamHue))
	for _, v := range finite {
		dest, ok := src.Offset(v.dr, v.dc)
		if ok && landable(f, dest, src, side) {
			out = append(out, Candidate{
				Kind: MoveSrcDst, Src: src, Dest: dest,
				WaterEntry: EntersWater(p.Prof, src, dest),
			})
		}
	}
	for _, v := range infinite {
		walkRay(f, src, v, src, side, func(dest Coord) {
			out = append(out, Candidate{
				Kind: MoveSrcDst, Src: src, Dest: dest,
				WaterEntry: EntersWater(p.Prof, src, dest),
			})
		})
	}

	for _, step := range Neighbors(src) {
		if !Occupied(f, step) {
			continue
		}
		finite, infinite := movement(p.Prof, side, isTamHue(f, step, tamItselfIsTamHue))
		for _, v := range finite {
			dest, ok := step.Offset(v.dr, v.dc)
			if !ok || dest == src || !landable(f, dest, src, side) {
				continue
			}
			out = append(out, Candidate{
				Kind: MoveSrcStepDst, Src: src, Step: step, Dest: dest,
				WaterEntry: EntersWater(p.Prof, src, dest),
			})
		}
		for _, v := range infinite {
			walkRay(f, step, v, src, side, func(dest Coord) {
				if dest == src {
					return
				}
				out = append(out, Candidate{
					Kind: MoveInfAfterStep, Src: src, Step: step, Dest: dest,
					WaterEntry: EntersWater(p.Prof, src, dest),
				})
			})
		}
	}
	return out
}

// tamCandidates lists the double moves of the Tam standing on src. Either
// side may move it; it never captures.
func tamCandidates(f Field, src Coord) []Candidate {
	var out []Candidate
	free := func(c Coord) bool { return c == src || !Occupied(f, c) }

	for _, first := range Neighbors(src) {
		if Occupied(f, first) {
			continue
		}
		for _, second := range Neighbors(first) {
			if free(second) {
				out = append(out, Candidate{
					Kind: MoveTamNoStep, Src: src, FirstDest: first, SecondDest: second,
				})
			}
		}
		for _, step := range Neighbors(first) {
			if step == src || !Occupied(f, step) {
				continue
			}
			for _, second := range Neighbors(step) {
				if free(second) {
					out = append(out, Candidate{
						Kind: MoveTamStepsDuringLatter, Src: src, FirstDest: first, Step: step, SecondDest: second,
					})
				}
			}
		}
	}

	for _, step := range Neighbors(src) {
		if !Occupied(f, step) {
			continue
		}
		for _, first := range Neighbors(step) {
			if !free(first) {
				continue
			}
			for _, second := range Neighbors(first) {
				if free(second) {
					out = append(out, Candidate{
						Kind: MoveTamStepsDuringFormer, Src: src, Step: step, FirstDest: first, SecondDest: second,
					})
				}
			}
		}
	}
	return out
}
