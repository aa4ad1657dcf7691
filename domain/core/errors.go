package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Precondition errors
	ErrTargetTooSmall      = errors.New("target minority size below current count")
	ErrInsufficientSamples = errors.New("insufficient minority samples")
	ErrDimensionMismatch   = errors.New("feature dimension mismatch")

	// Spectrum errors
	ErrDegenerateSpectrum = errors.New("degenerate eigen-spectrum")

	// Input errors
	ErrEmptyMatrix  = errors.New("empty sample matrix")
	ErrRaggedMatrix = errors.New("ragged sample matrix")
	ErrInvalidRatio = errors.New("mixing ratio out of range")
)

// Error constructors with context
func NewTargetTooSmallError(target, current int) error {
	return fmt.Errorf("%w: target %d < current %d", ErrTargetTooSmall, target, current)
}

func NewInsufficientSamplesError(got int) error {
	return fmt.Errorf("%w: need at least 2, got %d", ErrInsufficientSamples, got)
}

func NewDimensionMismatchError(minorityCols, majorityCols int) error {
	return fmt.Errorf("%w: minority has %d features, majority has %d", ErrDimensionMismatch, minorityCols, majorityCols)
}

func NewInvalidRatioError(per float64) error {
	return fmt.Errorf("%w: %g not in [0,1]", ErrInvalidRatio, per)
}

// Error checking helpers
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrTargetTooSmall) ||
		errors.Is(err, ErrInsufficientSamples) ||
		errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInvalidRatio)
}

func IsSpectrumError(err error) bool {
	return errors.Is(err, ErrDegenerateSpectrum)
}
