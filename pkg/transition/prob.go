package transition

import "fmt"

// DistributionKind is the shape of a Probabilistic value.
type DistributionKind uint8

const (
	// KindPure is a single certain outcome.
	KindPure DistributionKind = iota
	// KindWater is the water-entry check: failure on casts 0-2, success on 3-5.
	KindWater
	// KindSticks is a five-stick cast: outcomes for 0..5 face-up sticks.
	KindSticks
	// KindWhoGoesFirst is a fair choice of the first mover of a season.
	KindWhoGoesFirst
)

// NumSticks is the number of casting sticks.
const NumSticks = 5

// stickWeights[n] is the number of ways, out of 32, to cast n face-up sticks.
var stickWeights = [NumSticks + 1]float64{1, 5, 10, 10, 5, 1}

// Probabilistic is a weighted distribution over next states. The engine
// returns one from every transition and never draws from it itself.
type Probabilistic[T any] struct {
	Kind DistributionKind
	// values holds 1 (pure), 2 (water: failure, success; who goes first:
	// IASide, ASide) or 6 (sticks, indexed by cast) outcomes.
	values []T
}

// Outcome is one entry of a flattened distribution.
type Outcome[T any] struct {
	Value   T
	Cast    int
	HasCast bool
	Prob    float64
}

// Pure returns a certain outcome.
func Pure[T any](v T) Probabilistic[T] {
	return Probabilistic[T]{Kind: KindPure, values: []T{v}}
}

// Water returns the water-entry check between failure and success.
func Water[T any](failure, success T) Probabilistic[T] {
	return Probabilistic[T]{Kind: KindWater, values: []T{failure, success}}
}

// Sticks returns a cast distribution; byCast[n] is the outcome for n
// face-up sticks.
func Sticks[T any](byCast [NumSticks + 1]T) Probabilistic[T] {
	return Probabilistic[T]{Kind: KindSticks, values: byCast[:]}
}

// WhoGoesFirst returns the fair choice between IASide and ASide moving first.
func WhoGoesFirst[T any](iaFirst, aFirst T) Probabilistic[T] {
	return Probabilistic[T]{Kind: KindWhoGoesFirst, values: []T{iaFirst, aFirst}}
}

// Values returns the distinct outcome values in a fixed order.
func (p Probabilistic[T]) Values() []T {
	return append([]T(nil), p.values...)
}

// Outcomes flattens the distribution. The probabilities sum to exactly 1.
// Water is reported per cast so callers can show the sticks thrown.
func (p Probabilistic[T]) Outcomes() []Outcome[T] {
	switch p.Kind {
	case KindPure:
		return []Outcome[T]{{Value: p.values[0], Prob: 1}}
	case KindWater:
		out := make([]Outcome[T], 0, NumSticks+1)
		for cast, w := range stickWeights {
			v := p.values[0]
			if cast >= 3 {
				v = p.values[1]
			}
			out = append(out, Outcome[T]{Value: v, Cast: cast, HasCast: true, Prob: w / 32})
		}
		return out
	case KindSticks:
		out := make([]Outcome[T], 0, NumSticks+1)
		for cast, w := range stickWeights {
			out = append(out, Outcome[T]{Value: p.values[cast], Cast: cast, HasCast: true, Prob: w / 32})
		}
		return out
	case KindWhoGoesFirst:
		return []Outcome[T]{
			{Value: p.values[0], Prob: 0.5},
			{Value: p.values[1], Prob: 0.5},
		}
	}
	panic(fmt.Sprintf("transition: unknown distribution kind %d", p.Kind))
}

// Choose samples the distribution with a uniform variate u in [0, 1).
// hasCast is false for shapes that involve no sticks.
func (p Probabilistic[T]) Choose(u float64) (v T, cast int, hasCast bool) {
	if !(u >= 0 && u < 1) {
		panic(fmt.Sprintf("transition: uniform variate %v outside [0, 1)", u))
	}
	outcomes := p.Outcomes()
	acc := 0.0
	for _, o := range outcomes {
		acc += o.Prob
		if u < acc {
			return o.Value, o.Cast, o.HasCast
		}
	}
	panic(fmt.Sprintf("transition: variate %v not covered, cumulative weight %v", u, acc))
}

// ChooseWhenNoCast samples a distribution that involves no sticks. Calling
// it on a water or sticks distribution is a programming error.
func (p Probabilistic[T]) ChooseWhenNoCast(u float64) T {
	if p.Kind == KindWater || p.Kind == KindSticks {
		panic("transition: ChooseWhenNoCast called on a distribution with a stick cast")
	}
	v, _, _ := p.Choose(u)
	return v
}

// Map applies f to every outcome, keeping the weights.
func Map[T, U any](p Probabilistic[T], f func(T) U) Probabilistic[U] {
	out := Probabilistic[U]{Kind: p.Kind, values: make([]U, len(p.values))}
	for i, v := range p.values {
		out.values[i] = f(v)
	}
	return out
}
