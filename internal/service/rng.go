package service

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// RandomSource supplies the uniform variates every stick cast, water check
// and first-mover draw is decided by.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// DefaultRNG returns the crypto-backed source used in production.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// seededRNG is a reproducible PCG stream. It is shared by every game of a
// server, so draws are serialized.
type seededRNG struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRNG returns a reproducible source for replays and self-play.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// RNGFromSeed returns a seeded source for a non-zero seed and the crypto
// source otherwise.
func RNGFromSeed(seed int64) RandomSource {
	if seed == 0 {
		return DefaultRNG()
	}
	return NewSeededRNG(uint64(seed))
}
