package dataset

import (
	"errors"
	"reflect"
	"testing"

	"rebalance/domain/core"
)

func TestMatrix_Dims(t *testing.T) {
	tests := []struct {
		name     string
		matrix   Matrix
		wantRows int
		wantCols int
	}{
		{name: "empty", matrix: Matrix{}, wantRows: 0, wantCols: 0},
		{name: "single row", matrix: Matrix{{1, 2, 3}}, wantRows: 1, wantCols: 3},
		{name: "rectangular", matrix: Matrix{{1, 2}, {3, 4}, {5, 6}}, wantRows: 3, wantCols: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.matrix.Rows(); got != tt.wantRows {
				t.Errorf("Rows() = %d, want %d", got, tt.wantRows)
			}
			if got := tt.matrix.Cols(); got != tt.wantCols {
				t.Errorf("Cols() = %d, want %d", got, tt.wantCols)
			}
		})
	}
}

func TestMatrix_Validate(t *testing.T) {
	if err := (Matrix{}).Validate(); !errors.Is(err, core.ErrEmptyMatrix) {
		t.Errorf("empty matrix: got %v, want ErrEmptyMatrix", err)
	}
	if err := (Matrix{{1, 2}, {3}}).Validate(); !errors.Is(err, core.ErrRaggedMatrix) {
		t.Errorf("ragged matrix: got %v, want ErrRaggedMatrix", err)
	}
	if err := (Matrix{{1, 2}, {3, 4}}).Validate(); err != nil {
		t.Errorf("valid matrix: got %v, want nil", err)
	}
}

func TestMatrix_Clone(t *testing.T) {
	m := Matrix{{1, 2}, {3, 4}}
	c := m.Clone()

	if !reflect.DeepEqual(c, m) {
		t.Fatalf("Clone = %v, want %v", c, m)
	}
	c[0][0] = 99
	if m[0][0] != 1 {
		t.Error("Clone aliased original storage")
	}
}

func TestTranspose_RoundTrip(t *testing.T) {
	m := Matrix{{1, 2, 3}, {4, 5, 6}}

	tr := m.Transpose()
	if tr.Rows() != 3 || tr.Cols() != 2 {
		t.Fatalf("transposed dims = (%d,%d), want (3,2)", tr.Rows(), tr.Cols())
	}
	if tr[0][1] != 4 || tr[2][0] != 3 {
		t.Errorf("transposed layout wrong: %v", tr)
	}

	back := tr.Untranspose()
	if !reflect.DeepEqual(back, m) {
		t.Errorf("round trip = %v, want %v", back, m)
	}
}

func TestConcat(t *testing.T) {
	a := Matrix{{1, 2}}
	b := Matrix{}
	c := Matrix{{3, 4}, {5, 6}}

	got := Concat(a, b, c)
	want := Matrix{{1, 2}, {3, 4}, {5, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Concat = %v, want %v", got, want)
	}

	// Result must not alias input storage.
	got[0][0] = 99
	if a[0][0] != 1 {
		t.Error("Concat aliased input rows")
	}
}

func TestClassSplit_CheckDims(t *testing.T) {
	split := ClassSplit{
		Minority: Matrix{{1, 2}, {3, 4}},
		Majority: Matrix{{1, 2, 3}},
	}
	if err := split.CheckDims(); !errors.Is(err, core.ErrDimensionMismatch) {
		t.Errorf("got %v, want ErrDimensionMismatch", err)
	}

	split.Majority = Matrix{{5, 6}}
	if err := split.CheckDims(); err != nil {
		t.Errorf("got %v, want nil", err)
	}
}
