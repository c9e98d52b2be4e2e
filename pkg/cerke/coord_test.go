package cerke

import "testing"

func TestParseCoordRoundTrip(t *testing.T) {
	for _, c := range AllCoords() {
		got, err := ParseCoord(c.String())
		if err != nil {
			t.Fatalf("ParseCoord(%q): %v", c.String(), err)
		}
		if got != c {
			t.Errorf("ParseCoord(%q) = %v, want %v", c.String(), got, c)
		}
	}
}

func TestParseCoordRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "Z", "QA", "ZQ", "ZAA", "zo"} {
		if _, err := ParseCoord(s); err == nil {
			t.Errorf("ParseCoord(%q): expected error", s)
		}
	}
}

func TestWaterZoneIsACross(t *testing.T) {
	count := 0
	for _, c := range AllCoords() {
		if IsWater(c) {
			count++
			if c.Row != RowO && c.Col != ColZ {
				t.Errorf("%s is water but off the centre cross", c)
			}
		}
	}
	if count != 9 {
		t.Errorf("water squares: got %d, want 9", count)
	}
	if !IsWater(TamStart) {
		t.Errorf("tam start %s should be water", TamStart)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"ZO", "ZO", 0},
		{"ZO", "XY", 1},
		{"KA", "PIA", 8},
		{"LE", "LU", 2},
		{"KA", "NE", 2},
	}
	for _, tt := range tests {
		a, _ := ParseCoord(tt.a)
		b, _ := ParseCoord(tt.b)
		if got := Distance(a, b); got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSameDirection(t *testing.T) {
	tests := []struct {
		origin, a, b string
		want         bool
	}{
		{"ZO", "ZU", "ZA", true},
		{"ZO", "ZU", "ZY", false},
		{"ZO", "XY", "CAI", true},
		{"ZO", "XY", "CAU", false},
		{"ZO", "ZO", "ZA", false},
		{"ZO", "LE", "LI", false},
	}
	for _, tt := range tests {
		o, _ := ParseCoord(tt.origin)
		a, _ := ParseCoord(tt.a)
		b, _ := ParseCoord(tt.b)
		if got := SameDirection(o, a, b); got != tt.want {
			t.Errorf("SameDirection(%s, %s, %s) = %v, want %v", tt.origin, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNeighbors(t *testing.T) {
	corner, _ := ParseCoord("KA")
	if n := len(Neighbors(corner)); n != 3 {
		t.Errorf("corner neighbours: got %d, want 3", n)
	}
	if n := len(Neighbors(TamStart)); n != 8 {
		t.Errorf("centre neighbours: got %d, want 8", n)
	}
}
