package cerke

import (
	"strings"
	"testing"
)

// expectedInitialNotation is the starting layout with empty reserves.
const expectedInitialNotation = "abCabHabBabGarKarGarBarHarC/" +
	"abSabR1abT1arT1arRarS/" +
	"arPabParPabPabVarPabParPabP/" +
	"9/" +
	"4*4/" +
	"9/" +
	"ibPirPibPirPirVibPirPibPirP/" +
	"irSirR1irT1ibT1ibRibS/" +
	"irCirHirBirGibKibGibBibHibC" +
	" - -"

func TestEncodeFieldInitial(t *testing.T) {
	for _, enc := range encodings {
		if got := EncodeField(InitialField(enc)); got != expectedInitialNotation {
			t.Errorf("%s: EncodeField(initial) mismatch\ngot:  %s\nwant: %s", enc.Name(), got, expectedInitialNotation)
		}
	}
}

func TestDecodeFieldRoundTrip(t *testing.T) {
	f := InitialField(MapEncoding)
	f.Remove(mustCoord(t, "KA"))
	f.AddToReserve(IASide, ColorProf{Black, Clerk})
	f.AddToReserve(IASide, ColorProf{Red, Pawn})
	f.AddToReserve(ASide, ColorProf{Red, Vessel})

	s := EncodeField(f)
	if !strings.HasSuffix(s, " bCrP rV") {
		t.Errorf("reserve section: got %q", s)
	}
	for _, enc := range encodings {
		g, err := DecodeField(s, enc)
		if err != nil {
			t.Fatalf("%s: DecodeField: %v", enc.Name(), err)
		}
		if !Equal(f, g) {
			t.Errorf("%s: round trip changed the field", enc.Name())
		}
		if got := EncodeField(g); got != s {
			t.Errorf("%s: re-encode mismatch\ngot:  %s\nwant: %s", enc.Name(), got, s)
		}
	}
}

func TestDecodeFieldErrors(t *testing.T) {
	tests := []string{
		"",
		"9/9/9/9/9/9/9/9 - -",
		"9/9/9/9/9/9/9/9/8 - -",
		"9/9/9/9/9/9/9/9/91 - -",
		"9/9/9/9/9/9/9/9/8xrP - -",
		"9/9/9/9/9/9/9/9/8arQ - -",
		"9/9/9/9/9/9/9/9/8ar - -",
		"9/9/9/9/9/9/9/9/9 r -",
		"9/9/9/9/9/9/9/9/9 -",
	}
	for _, s := range tests {
		if _, err := DecodeField(s, DenseEncoding); err == nil {
			t.Errorf("DecodeField(%q): expected error", s)
		}
	}
}
