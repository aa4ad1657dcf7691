package dataset

import (
	"rebalance/domain/core"
)

// Matrix is a row-major sample table: one row per sample, one column per feature.
// It is treated as a value; consumers must not mutate rows they did not allocate.
type Matrix [][]float64

// Transposed is a column-major feature table: one row per feature, one column
// per sample. The density generator speaks this layout at its boundary, so the
// orientation is carried in the type rather than by convention.
type Transposed [][]float64

// Rows returns the number of samples.
func (m Matrix) Rows() int { return len(m) }

// Cols returns the number of features, or 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate checks the matrix is non-empty and rectangular.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return core.ErrEmptyMatrix
	}
	n := len(m[0])
	for _, row := range m {
		if len(row) != n {
			return core.ErrRaggedMatrix
		}
	}
	return nil
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Transpose returns the column-major view as a fresh allocation.
func (m Matrix) Transpose() Transposed {
	rows, cols := m.Rows(), m.Cols()
	out := make(Transposed, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Rows returns the number of features in the transposed layout.
func (t Transposed) Rows() int { return len(t) }

// Cols returns the number of samples in the transposed layout.
func (t Transposed) Cols() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// Untranspose converts back to the row-major sample layout.
func (t Transposed) Untranspose() Matrix {
	features, samples := t.Rows(), t.Cols()
	out := make(Matrix, samples)
	for i := 0; i < samples; i++ {
		out[i] = make([]float64, features)
		for j := 0; j < features; j++ {
			out[i][j] = t[j][i]
		}
	}
	return out
}

// Concat stacks matrices row-wise, skipping empty ones. The result shares no
// backing storage with the inputs.
func Concat(parts ...Matrix) Matrix {
	total := 0
	for _, p := range parts {
		total += p.Rows()
	}
	out := make(Matrix, 0, total)
	for _, p := range parts {
		for _, row := range p {
			r := make([]float64, len(row))
			copy(r, row)
			out = append(out, r)
		}
	}
	return out
}

// Union stacks minority and majority samples for pooled statistics.
func Union(minority, majority Matrix) Matrix {
	return Concat(minority, majority)
}

// ClassSplit holds an imbalanced two-class dataset partitioned by label.
type ClassSplit struct {
	Minority Matrix
	Majority Matrix

	MinorityLabel string
	MajorityLabel string
}

// CheckDims validates both matrices and their shared feature dimension.
func (s ClassSplit) CheckDims() error {
	if err := s.Minority.Validate(); err != nil {
		return err
	}
	if err := s.Majority.Validate(); err != nil {
		return err
	}
	if s.Minority.Cols() != s.Majority.Cols() {
		return core.NewDimensionMismatchError(s.Minority.Cols(), s.Majority.Cols())
	}
	return nil
}
