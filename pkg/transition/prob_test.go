package transition

import (
	"math"
	"testing"
)

func sumProb[T any](p Probabilistic[T]) float64 {
	total := 0.0
	for _, o := range p.Outcomes() {
		total += o.Prob
	}
	return total
}

func TestOutcomesSumToOne(t *testing.T) {
	tests := []struct {
		name string
		p    Probabilistic[string]
		n    int
	}{
		{"pure", Pure("x"), 1},
		{"water", Water("fail", "ok"), 6},
		{"sticks", Sticks([NumSticks + 1]string{"0", "1", "2", "3", "4", "5"}), 6},
		{"who goes first", WhoGoesFirst("ia", "a"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.p.Outcomes()); got != tt.n {
				t.Errorf("outcomes: got %d, want %d", got, tt.n)
			}
			if got := sumProb(tt.p); got != 1 {
				t.Errorf("total probability: got %v, want exactly 1", got)
			}
		})
	}
}

func TestWaterSplitsEvenly(t *testing.T) {
	p := Water("fail", "ok")
	weights := map[string]float64{}
	for _, o := range p.Outcomes() {
		if !o.HasCast {
			t.Errorf("water outcome without cast: %+v", o)
		}
		if (o.Cast >= 3) != (o.Value == "ok") {
			t.Errorf("cast %d mapped to %q", o.Cast, o.Value)
		}
		weights[o.Value] += o.Prob
	}
	if weights["fail"] != 16.0/32 || weights["ok"] != 16.0/32 {
		t.Errorf("weights: got %v, want 16/32 each", weights)
	}
}

func TestSticksWeights(t *testing.T) {
	p := Sticks([NumSticks + 1]int{0, 1, 2, 3, 4, 5})
	want := []float64{1, 5, 10, 10, 5, 1}
	for i, o := range p.Outcomes() {
		if o.Value != i || o.Cast != i {
			t.Errorf("outcome %d: value=%d cast=%d", i, o.Value, o.Cast)
		}
		if o.Prob != want[i]/32 {
			t.Errorf("cast %d: got %v, want %v/32", i, o.Prob, want[i])
		}
	}
}

func TestChooseByCumulativeWeight(t *testing.T) {
	p := Sticks([NumSticks + 1]int{0, 1, 2, 3, 4, 5})
	tests := []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.99 / 32, 0},
		{1.0 / 32, 1},
		{5.99 / 32, 1},
		{6.0 / 32, 2},
		{16.0 / 32, 3},
		{26.0 / 32, 4},
		{31.0 / 32, 5},
		{math.Nextafter(1, 0), 5},
	}
	for _, tt := range tests {
		v, cast, hasCast := p.Choose(tt.u)
		if v != tt.want || cast != tt.want || !hasCast {
			t.Errorf("Choose(%v) = %d, %d, %v; want %d", tt.u, v, cast, hasCast, tt.want)
		}
	}

	first := WhoGoesFirst("ia", "a")
	if got := first.ChooseWhenNoCast(0.49); got != "ia" {
		t.Errorf("ChooseWhenNoCast(0.49) = %q, want ia", got)
	}
	if got := first.ChooseWhenNoCast(0.5); got != "a" {
		t.Errorf("ChooseWhenNoCast(0.5) = %q, want a", got)
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}

func TestChooseRejectsOutOfRangeVariate(t *testing.T) {
	p := Pure(1)
	expectPanic(t, "u=1", func() { p.Choose(1) })
	expectPanic(t, "u<0", func() { p.Choose(-0.1) })
	expectPanic(t, "NaN", func() { p.Choose(math.NaN()) })
}

func TestChooseWhenNoCastRejectsCasts(t *testing.T) {
	expectPanic(t, "water", func() { Water(1, 2).ChooseWhenNoCast(0.1) })
	expectPanic(t, "sticks", func() { Sticks([NumSticks + 1]int{}).ChooseWhenNoCast(0.1) })
	if got := Pure(7).ChooseWhenNoCast(0.3); got != 7 {
		t.Errorf("pure: got %d, want 7", got)
	}
}

func TestMapKeepsWeights(t *testing.T) {
	p := Map(Water(1, 2), func(v int) int { return v * 10 })
	if p.Kind != KindWater {
		t.Fatalf("kind: got %d, want water", p.Kind)
	}
	if got := p.Values(); len(got) != 2 || got[0] != 10 || got[1] != 20 {
		t.Errorf("values: got %v, want [10 20]", got)
	}
}
