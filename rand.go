package lisa

import (
	"math/rand/v2"
	"time"
)

// PositionStep bounds the signed delta applied to a mutated coordinate or size.
const PositionStep = 0.5

// NewRand returns a PCG-backed random source. A zero seed draws one from the clock.
//
// A *rand.Rand is not safe for concurrent use; give every goroutine its own.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Adjust returns v moved by a uniform delta in [-step/2, step/2) and clamped to [lo, hi].
func Adjust(r *rand.Rand, v, step, lo, hi float64) float64 {
	return clampf(v+(r.Float64()-0.5)*step, lo, hi)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
