package testutil

import (
	"math"
	"math/rand/v2"
	"sync"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed uint64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewPCG(seed, seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewPCG(r.seed, r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Rand returns a new unsynchronized generator seeded from r, for APIs that
// take a *rand.Rand.
func (r *RNG) Rand() *rand.Rand {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rand.New(rand.NewPCG(r.rand.Uint64(), r.rand.Uint64()))
}

// IntN returns a non-negative pseudo-random number in [0,n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

func (r *RNG) stringLocked(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[r.rand.IntN(len(alphabet))]
	}
	return string(b)
}

// Strings returns num distinct random alphanumeric strings of the given length.
// It panics if length is too short to produce num distinct strings.
func (r *RNG) Strings(num, length int) []string {
	return r.StringsExcept(num, length, nil)
}

// StringsExcept returns num distinct random strings that do not occur in exclude.
func (r *RNG) StringsExcept(num, length int, exclude []string) []string {
	if float64(num+len(exclude)) > math.Pow(float64(len(alphabet)), float64(length)) {
		panic("testutil: string length too short")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, num+len(exclude))
	for _, s := range exclude {
		seen[s] = struct{}{}
	}

	out := make([]string, 0, num)
	for len(out) < num {
		s := r.stringLocked(length)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Uint64s returns num distinct random uint64 values.
func (r *RNG) Uint64s(num int) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uint64]struct{}, num)
	out := make([]uint64, 0, num)
	for len(out) < num {
		v := r.rand.Uint64()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Sample returns num elements drawn from keys with replacement, for
// generating skewed or repeated query workloads.
func Sample[T any](r *RNG, keys []T, num int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, num)
	for i := range out {
		out[i] = keys[r.rand.IntN(len(keys))]
	}
	return out
}

// ObservedRate returns the fraction of probes for which contains reports true.
// Used to measure false positive rates over non-members and false negative
// rates (as 1 - ObservedRate) over members.
func ObservedRate[T any](probes []T, contains func(T) bool) float64 {
	if len(probes) == 0 {
		return 0
	}
	hits := 0
	for _, p := range probes {
		if contains(p) {
			hits++
		}
	}
	return float64(hits) / float64(len(probes))
}
