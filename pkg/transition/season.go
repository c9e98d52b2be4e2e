package transition

import "fmt"

// Season is one of the four rounds of a game.
type Season string

const (
	Spring Season = "spring" // Iei2
	Summer Season = "summer" // Xo1
	Autumn Season = "autumn" // Kat2
	Winter Season = "winter" // Iat1
)

var seasonOrder = []Season{Spring, Summer, Autumn, Winter}

// Next returns the following season; false after winter.
func (s Season) Next() (Season, bool) {
	i := s.Index()
	if i < 0 || i+1 >= len(seasonOrder) {
		return "", false
	}
	return seasonOrder[i+1], true
}

// Index returns 0 for spring through 3 for winter, -1 if unknown.
func (s Season) Index() int {
	for i, candidate := range seasonOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the four seasons.
func (s Season) Valid() bool {
	return s.Index() >= 0
}

// Rate multiplies every score change. It starts at X1 each season and
// doubles on each decision to continue.
type Rate int

const (
	X1  Rate = 1
	X2  Rate = 2
	X4  Rate = 4
	X8  Rate = 8
	X16 Rate = 16
	X32 Rate = 32
	X64 Rate = 64
)

// Next doubles the rate, saturating at X64.
func (r Rate) Next() Rate {
	if r >= X64 {
		return X64
	}
	return r * 2
}

// Num returns the multiplier.
func (r Rate) Num() int {
	return int(r)
}

// Valid reports whether r is a power of two between X1 and X64.
func (r Rate) Valid() bool {
	return r >= X1 && r <= X64 && r&(r-1) == 0
}

func (r Rate) String() string {
	return fmt.Sprintf("x%d", int(r))
}
