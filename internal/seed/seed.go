// Package seed holds the process-wide random seed.
//
// Scope: Set reseeds the generator returned by Rand and nothing else. The
// top-level functions of math/rand and math/rand/v2 are not affected; code
// that needs reproducible randomness must draw from Rand or from a
// generator built with ForName. Call Set once at process start, before any
// goroutine uses Rand.
package seed

import (
	"hash/fnv"
	"math/rand/v2"
	"sync"
)

// Default is the seed in effect when Set was never called.
const Default uint64 = 42

var (
	mu      sync.Mutex
	current = Default
	rng     = newRand(Default)
)

func newRand(s uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Set replaces the seed and resets the shared generator.
func Set(s uint64) {
	mu.Lock()
	defer mu.Unlock()
	current = s
	rng = newRand(s)
}

// Get returns the seed last passed to Set, or Default.
func Get() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Reset restores Default.
func Reset() { Set(Default) }

// Rand returns the shared generator. It is not safe for concurrent use.
func Rand() *rand.Rand {
	mu.Lock()
	defer mu.Unlock()
	return rng
}

// ForName derives a stable seed for a named experiment from the current seed.
func ForName(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64() ^ Get()
}

// NewRand returns an independent generator seeded with ForName(name).
func NewRand(name string) *rand.Rand {
	return newRand(ForName(name))
}
