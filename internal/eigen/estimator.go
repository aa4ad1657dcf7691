// Package eigen derives a regularized eigen-spectrum for a small minority
// sample. Eigenvalues of the minority covariance below a reliability threshold
// are replaced by a hyperbolic decay fitted to the trusted part of the
// spectrum, capped by the variance the pooled population actually exhibits
// along each axis.
package eigen

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"rebalance/domain/core"
	"rebalance/domain/dataset"
	"rebalance/domain/spectrum"
)

// Estimator computes spectrum.Model values from class sample matrices.
type Estimator struct {
	threshold float64
}

// NewEstimator creates an estimator with the default reliability threshold.
func NewEstimator() *Estimator {
	return &Estimator{threshold: spectrum.ReliabilityThreshold}
}

// SetThreshold overrides the eigenvalue reliability threshold. Values <= 0 are
// ignored and the default is kept.
func (e *Estimator) SetThreshold(t float64) {
	if t > 0 {
		e.threshold = t
	}
}

// Estimate computes the minority mean, eigenbasis and regularized spectrum.
// The minority matrix needs at least 2 rows; both matrices must share a
// feature dimension of at least 2.
func (e *Estimator) Estimate(minority, majority dataset.Matrix) (*spectrum.Model, error) {
	if err := minority.Validate(); err != nil {
		return nil, fmt.Errorf("minority matrix: %w", err)
	}
	if err := majority.Validate(); err != nil {
		return nil, fmt.Errorf("majority matrix: %w", err)
	}
	if minority.Rows() < 2 {
		return nil, core.NewInsufficientSamplesError(minority.Rows())
	}
	if minority.Cols() != majority.Cols() {
		return nil, core.NewDimensionMismatchError(minority.Cols(), majority.Cols())
	}
	if minority.Cols() < 2 {
		return nil, fmt.Errorf("need at least 2 features, got %d", minority.Cols())
	}

	n := minority.Cols()
	pos := toDense(minority)

	mean := columnMeans(pos)

	var posCov mat.SymDense
	stat.CovarianceMatrix(&posCov, pos, nil)

	values, basis, err := sortedEigen(&posCov)
	if err != nil {
		return nil, err
	}

	cutoff := n
	for i, v := range values {
		if v <= e.threshold {
			cutoff = i + 1
			break
		}
	}

	var poolCov mat.SymDense
	stat.CovarianceMatrix(&poolCov, toDense(dataset.Union(minority, majority)), nil)
	popVar := projectedDiagonal(&poolCov, basis)

	regularized, alpha, beta := Regularize(values, popVar, cutoff)
	return &spectrum.Model{
		Mean:               mean,
		Basis:              denseRows(basis),
		Raw:                values,
		Values:             regularized,
		PopulationVariance: popVar,
		Cutoff:             cutoff,
		Alpha:              alpha,
		Beta:               beta,
	}, nil
}

// Regularize applies the hyperbolic decay f(i) = alpha/(i+beta) from the
// cutoff axis onward, clamped to the pooled-population variance. A flat
// spectrum (first trusted eigenvalue equal to the cutoff eigenvalue, which
// covers cutoff == 1) has no reliable-subspace boundary to fit against, so the
// raw spectrum is returned unmodified with zero constants.
func Regularize(values, popVar []float64, cutoff int) (out []float64, alpha, beta float64) {
	out = make([]float64, len(values))
	copy(out, values)

	d1, dm := values[0], values[cutoff-1]
	if d1 == dm {
		return out, 0, 0
	}

	m := float64(cutoff)
	alpha = d1 * dm * (m - 1) / (d1 - dm)
	beta = (m*dm - d1) / (d1 - dm)

	for i := cutoff - 1; i < len(out); i++ {
		v := alpha / (float64(i+1) + beta)
		if v > popVar[i] {
			v = popVar[i]
		}
		out[i] = v
	}
	return out, alpha, beta
}

// sortedEigen factorizes a symmetric covariance matrix and returns its
// spectrum in descending order with matching eigenvector columns.
func sortedEigen(cov *mat.SymDense) ([]float64, *mat.Dense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return nil, nil, fmt.Errorf("%w: eigendecomposition failed", core.ErrDegenerateSpectrum)
	}

	asc := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	n := len(asc)
	values := make([]float64, n)
	basis := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		src := n - 1 - j // gonum reports ascending order
		values[j] = asc[src]
		if !isFinite(values[j]) {
			return nil, nil, fmt.Errorf("%w: non-finite eigenvalue at axis %d", core.ErrDegenerateSpectrum, j+1)
		}
		for i := 0; i < n; i++ {
			basis.Set(i, j, vecs.At(i, src))
		}
	}
	return values, basis, nil
}

// projectedDiagonal computes diag(Vᵀ·C·V): the variance of C's population
// along each column axis of V.
func projectedDiagonal(cov *mat.SymDense, v *mat.Dense) []float64 {
	var cv, proj mat.Dense
	cv.Mul(cov, v)
	proj.Mul(v.T(), &cv)

	n, _ := proj.Dims()
	diag := make([]float64, n)
	for i := 0; i < n; i++ {
		diag[i] = proj.At(i, i)
	}
	return diag
}

func columnMeans(x *mat.Dense) []float64 {
	_, cols := x.Dims()
	means := make([]float64, cols)
	for j := 0; j < cols; j++ {
		means[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	return means
}

func toDense(m dataset.Matrix) *mat.Dense {
	rows, cols := m.Rows(), m.Cols()
	d := mat.NewDense(rows, cols, nil)
	for i, row := range m {
		d.SetRow(i, row)
	}
	return d
}

func denseRows(d *mat.Dense) [][]float64 {
	rows, cols := d.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = make([]float64, cols)
		mat.Row(out[i], i, d)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
