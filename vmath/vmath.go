package vmath

import (
	"math"
	"time"
)

// --- Scalars ---

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Wrap moves v to lo once it passes hi
// Used for seamless horizontal looping; v == hi is still in range
func Wrap(v, lo, hi float64) float64 {
	if v > hi {
		return lo
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// --- Randomness ---

// Source yields uniform values in [0, 1)
// Path generation and finger selection take a Source so tests can script outcomes
type Source interface {
	Float64() float64
}

// FastRand is a xorshift64 generator, not safe for concurrent use
type FastRand struct {
	state uint64
}

// NewFastRand creates a generator; zero seed is remapped since xorshift sticks at 0
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

// NewTimeSeededRand seeds from the wall clock
func NewTimeSeededRand() *FastRand {
	return NewFastRand(uint64(time.Now().UnixNano()))
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Intn draws an index in [0, n) from any Source
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Range draws a value in [lo, hi) from src
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Sequence replays fixed values, cycling when exhausted
// Test helper for deterministic generation
type Sequence struct {
	Values []float64
	pos    int
}

func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.pos%len(s.Values)]
	s.pos++
	return v
}
