package ports

import (
	"math/rand"
)

// RNGSource provides seeded random number generators for deterministic
// synthesis. Streams with the same name and seed must produce identical
// sequences, so a run can be replayed exactly.
type RNGSource interface {
	// Stream creates a deterministic generator for a named operation.
	Stream(name string, seed int64) *rand.Rand
}
