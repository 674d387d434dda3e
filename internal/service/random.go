package service

import (
	"math/rand/v2"
	"sync"

	"github.com/smartcity/corridor/pkg/utils"
)

// Rand is the randomness the generators draw from
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// globalRand uses the process-wide math/rand/v2 source, which is safe for concurrent use
type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// NewGlobalRand returns a Rand backed by the process-wide source
func NewGlobalRand() Rand {
	return globalRand{}
}

// lockedRand serializes access to a seeded generator
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRand returns a deterministic Rand that is safe for concurrent use
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// intBetween returns a uniform integer in [lo, hi]
func intBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := hi - lo + 1
	if span <= 0 {
		// wider than int; draw on the reals instead
		v := utils.Lerp(float64(lo), float64(hi), r.Float64())
		if v >= float64(hi) {
			return hi
		}
		return max(lo, int(v))
	}
	return lo + r.IntN(span)
}

// floatBetween returns a uniform real in [lo, hi)
func floatBetween(r Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return utils.Lerp(lo, hi, r.Float64())
}

// pick returns a uniform element of items
func pick[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}
