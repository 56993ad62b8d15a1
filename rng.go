package coexsim

//
// Deterministic random number generation
//

import "math/rand"

// RNG is the view of [rand.Rand] this package depends on, abstracted for
// testability the same way the teacher's LinkFwdRNG abstracts [rand.Rand]
// for the link forwarding algorithms.
type RNG interface {
	// Intn is like [rand.Rand.Intn].
	Intn(n int) int
}

var _ RNG = &rand.Rand{}

// NewRNG creates the single seeded [RNG] a run must share across every
// component that draws random values (backoff draws, sync-slot desync
// offsets). A run is only deterministic, per spec.md §5, if every
// nondeterministic choice flows through one RNG seeded once.
func NewRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}

// uniform draws a uniform integer in [lo, hi], inclusive, matching Python's
// random.randint(lo, hi) semantics used throughout the original simulator.
func uniform(rng RNG, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(rng.Intn(int(hi-lo+1)))
}
