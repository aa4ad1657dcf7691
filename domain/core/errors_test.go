package core

import (
	"errors"
	"testing"
)

func TestIsPreconditionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "target too small", err: NewTargetTooSmallError(5, 10), want: true},
		{name: "insufficient samples", err: NewInsufficientSamplesError(1), want: true},
		{name: "dimension mismatch", err: NewDimensionMismatchError(2, 3), want: true},
		{name: "invalid ratio", err: NewInvalidRatioError(1.5), want: true},
		{name: "degenerate spectrum", err: ErrDegenerateSpectrum, want: false},
		{name: "unrelated", err: errors.New("disk full"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPreconditionError(tt.err); got != tt.want {
				t.Errorf("IsPreconditionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsSpectrumError(t *testing.T) {
	if !IsSpectrumError(ErrDegenerateSpectrum) {
		t.Error("ErrDegenerateSpectrum should classify as spectrum error")
	}
	if IsSpectrumError(ErrTargetTooSmall) {
		t.Error("ErrTargetTooSmall should not classify as spectrum error")
	}
}

func TestID_IsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("empty ID should report empty")
	}
	if NewID().IsEmpty() {
		t.Error("generated ID should not report empty")
	}
}
