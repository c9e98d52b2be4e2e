package cerke

import (
	"reflect"
	"testing"
)

func fieldWith(t *testing.T, enc Encoding, pieces map[string]Piece) Field {
	t.Helper()
	f := enc.NewField()
	for s, p := range pieces {
		f.Put(mustCoord(t, s), p)
	}
	return f
}

func countKind(cands []Candidate, kind MoveKind) int {
	n := 0
	for _, c := range cands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func TestCandidatesPawnMovesForward(t *testing.T) {
	for _, enc := range encodings {
		t.Run(enc.Name(), func(t *testing.T) {
			f := fieldWith(t, enc, map[string]Piece{"KY": NewPiece(Red, Pawn, IASide)})
			_, onBoard := Candidates(f, IASide, false)
			want := []Candidate{{Kind: MoveSrcDst, Src: mustCoord(t, "KY"), Dest: mustCoord(t, "KO")}}
			if !reflect.DeepEqual(onBoard, want) {
				t.Errorf("got %+v, want %+v", onBoard, want)
			}

			f = fieldWith(t, enc, map[string]Piece{"KE": NewPiece(Red, Pawn, ASide)})
			_, onBoard = Candidates(f, ASide, false)
			if len(onBoard) != 1 || onBoard[0].Dest != mustCoord(t, "KI") {
				t.Errorf("ASide pawn: got %+v, want single move to KI", onBoard)
			}
		})
	}
}

func TestCandidatesRookRays(t *testing.T) {
	f := fieldWith(t, DenseEncoding, map[string]Piece{
		"TU": NewPiece(Red, Rook, ASide),
		"CU": NewPiece(Black, Pawn, IASide),
		"TE": NewPiece(Black, Pawn, ASide),
	})
	_, onBoard := Candidates(f, ASide, false)

	// Rook: 3 left, 3 right (capture on CU), 1 up, 5 down. Pawn on TE: 1.
	if len(onBoard) != 13 {
		t.Fatalf("candidates: got %d, want 13: %+v", len(onBoard), onBoard)
	}
	water := 0
	for _, c := range onBoard {
		if c.WaterEntry {
			water++
		}
		if c.Dest == mustCoord(t, "TE") {
			t.Error("rook must not land on its own pawn")
		}
	}
	// ZU and TO are water.
	if water != 2 {
		t.Errorf("water entries: got %d, want 2", water)
	}
}

func TestCandidatesStepOverOccupiedNeighbour(t *testing.T) {
	f := fieldWith(t, MapEncoding, map[string]Piece{
		"KY": NewPiece(Red, Pawn, IASide),
		"KO": NewPiece(Black, Pawn, ASide),
	})
	_, onBoard := Candidates(f, IASide, false)
	want := []Candidate{
		{Kind: MoveSrcDst, Src: mustCoord(t, "KY"), Dest: mustCoord(t, "KO")},
		{Kind: MoveSrcStepDst, Src: mustCoord(t, "KY"), Step: mustCoord(t, "KO"), Dest: mustCoord(t, "KU")},
	}
	if !reflect.DeepEqual(onBoard, want) {
		t.Errorf("got %+v, want %+v", onBoard, want)
	}
}

func TestCandidatesInfiniteAfterStep(t *testing.T) {
	f := fieldWith(t, DenseEncoding, map[string]Piece{
		"LY": NewPiece(Red, Rook, IASide),
		"LO": NewPiece(Red, Pawn, IASide),
	})
	_, onBoard := Candidates(f, IASide, false)

	src, step := mustCoord(t, "LY"), mustCoord(t, "LO")
	n := 0
	for _, c := range onBoard {
		if c.Kind != MoveInfAfterStep {
			continue
		}
		if c.Src != src || c.Step != step {
			t.Errorf("unexpected step move %+v", c)
		}
		if c.Dest == src {
			t.Error("planned destination must not be the source")
		}
		n++
	}
	// From LO: 4 up, 3 down past the vacated LY, 1 left, 7 right.
	if n != 15 {
		t.Errorf("inf-after-step candidates: got %d, want 15", n)
	}
	if got := countKind(onBoard, MoveSrcDst); got != 1+3+1+7 {
		t.Errorf("direct moves: got %d, want 12", got)
	}
}

func TestCandidatesTamDoubleMove(t *testing.T) {
	f := fieldWith(t, MapEncoding, map[string]Piece{"KA": TamPiece()})
	for _, side := range []Side{IASide, ASide} {
		_, onBoard := Candidates(f, side, false)
		if len(onBoard) != 18 {
			t.Errorf("%s: tam moves from corner: got %d, want 18", side, len(onBoard))
		}
		for _, c := range onBoard {
			if c.Kind != MoveTamNoStep {
				t.Errorf("%s: unexpected kind %d", side, c.Kind)
			}
		}
	}
}

func TestCandidatesTamSteps(t *testing.T) {
	f := fieldWith(t, MapEncoding, map[string]Piece{
		"KA": TamPiece(),
		"LA": NewPiece(Red, Pawn, ASide),
	})
	_, onBoard := Candidates(f, IASide, false)
	if countKind(onBoard, MoveTamStepsDuringFormer) == 0 {
		t.Error("expected tam moves stepping during the former half")
	}
	if countKind(onBoard, MoveTamStepsDuringLatter) == 0 {
		t.Error("expected tam moves stepping during the latter half")
	}
	for _, c := range onBoard {
		if c.Kind.IsTamMove() && (c.FirstDest == mustCoord(t, "LA") || c.SecondDest == mustCoord(t, "LA")) {
			t.Errorf("tam must not land on an occupied square: %+v", c)
		}
	}
}

func TestCandidatesReservePlacement(t *testing.T) {
	f := InitialField(DenseEncoding)
	f.AddToReserve(IASide, ColorProf{Red, Pawn})
	f.AddToReserve(IASide, ColorProf{Red, Pawn})
	fromReserve, _ := Candidates(f, IASide, false)

	// 81 squares, 48 pieces and the Tam: 32 empty squares, one distinct piece.
	if len(fromReserve) != 32 {
		t.Errorf("placements: got %d, want 32", len(fromReserve))
	}
	fromReserve, _ = Candidates(f, ASide, false)
	if len(fromReserve) != 0 {
		t.Errorf("ASide has no reserve, got %d placements", len(fromReserve))
	}
}

func TestCandidatesIdempotent(t *testing.T) {
	for _, enc := range encodings {
		f := InitialField(enc)
		r1, b1 := Candidates(f, IASide, true)
		r2, b2 := Candidates(f, IASide, true)
		if !reflect.DeepEqual(r1, r2) || !reflect.DeepEqual(b1, b2) {
			t.Errorf("%s: repeated generation differs", enc.Name())
		}
	}
}

func TestCandidatesEncodingIndependent(t *testing.T) {
	m := InitialField(MapEncoding)
	d := InitialField(DenseEncoding)
	for _, side := range []Side{IASide, ASide} {
		_, bm := Candidates(m, side, false)
		_, bd := Candidates(d, side, false)
		if !reflect.DeepEqual(bm, bd) {
			t.Errorf("%s: encodings disagree", side)
		}
	}
}

func TestTamItselfIsTamHueWidensStepMoves(t *testing.T) {
	f := fieldWith(t, MapEncoding, map[string]Piece{
		"KA": TamPiece(),
		"KE": NewPiece(Red, Pawn, IASide),
	})
	_, plain := Candidates(f, IASide, false)
	_, widened := Candidates(f, IASide, true)
	if countKind(widened, MoveSrcStepDst) <= countKind(plain, MoveSrcStepDst) {
		t.Errorf("stepping on the tam should widen pawn moves: plain=%d widened=%d",
			countKind(plain, MoveSrcStepDst), countKind(widened, MoveSrcStepDst))
	}
}
