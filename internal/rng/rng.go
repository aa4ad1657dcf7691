// Package rng implements the seeded RNG source used by the generators.
package rng

import (
	"hash/fnv"
	"math/rand"
)

// HashedSource derives per-operation RNG streams by mixing the stream name
// into the base seed. Identical (name, seed) pairs always yield identical
// sequences.
type HashedSource struct{}

// NewHashedSource creates a deterministic RNG source.
func NewHashedSource() *HashedSource {
	return &HashedSource{}
}

// Stream returns a generator seeded from the name and seed.
func (s *HashedSource) Stream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}
