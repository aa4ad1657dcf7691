package rng

import (
	"testing"
)

func TestStream_Deterministic(t *testing.T) {
	src := NewHashedSource()

	a := src.Stream("epso", 42)
	b := src.Stream("epso", 42)
	for i := 0; i < 100; i++ {
		if got, want := a.Float64(), b.Float64(); got != want {
			t.Fatalf("draw %d: %v != %v", i, got, want)
		}
	}
}

func TestStream_NamesAreIndependent(t *testing.T) {
	src := NewHashedSource()

	a := src.Stream("epso", 42)
	b := src.Stream("adasyn", 42)

	same := 0
	for i := 0; i < 50; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	if same == 50 {
		t.Fatal("differently named streams produced identical sequences")
	}
}

func TestStream_SeedsAreIndependent(t *testing.T) {
	src := NewHashedSource()

	a := src.Stream("epso", 1)
	b := src.Stream("epso", 2)
	if a.Float64() == b.Float64() && a.Float64() == b.Float64() {
		t.Fatal("different seeds produced identical draws")
	}
}
