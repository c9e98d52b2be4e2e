package service

import "testing"

func TestSeededRNGIsReproducible(t *testing.T) {
	a, b := NewSeededRNG(99), NewSeededRNG(99)
	for i := range 100 {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d differs: %v vs %v", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d out of range: %v", i, x)
		}
	}
}

func TestDefaultRNGRange(t *testing.T) {
	r := DefaultRNG()
	for range 1000 {
		if v := r.Float64(); v < 0 || v >= 1 {
			t.Fatalf("out of range: %v", v)
		}
	}
}

func TestRNGFromSeed(t *testing.T) {
	if _, ok := RNGFromSeed(0).(cryptoRNG); !ok {
		t.Error("seed 0 should select the crypto source")
	}
	if _, ok := RNGFromSeed(5).(*seededRNG); !ok {
		t.Error("non-zero seed should select the seeded source")
	}
}
