package spectrum

// ReliabilityThreshold is the absolute eigenvalue floor below which a principal
// axis of the minority covariance is considered statistically unreliable. The
// value is a fixed design parameter, not scaled to the data; override it via
// the estimator options for ill-conditioned datasets.
const ReliabilityThreshold = 0.005

// Model is the regularized eigen-spectrum of the minority class. Basis columns
// and Values share the same descending eigenvalue order.
type Model struct {
	// Mean is the per-feature arithmetic mean of the minority samples.
	Mean []float64

	// Basis holds the eigenvectors of the minority covariance, column-major:
	// Basis[i][j] is component i of eigenvector j.
	Basis [][]float64

	// Raw is the sample eigen-spectrum in descending order.
	Raw []float64

	// Values is the regularized spectrum: Raw below the cutoff, a clamped
	// hyperbolic decay from the cutoff onward.
	Values []float64

	// PopulationVariance is the pooled-population variance projected onto each
	// minority eigen-axis (the clamp ceiling applied to Values).
	PopulationVariance []float64

	// Cutoff is the 1-based index of the first unreliable axis: axes with
	// index < Cutoff keep their sample eigenvalues. 1 <= Cutoff <= Dim().
	Cutoff int

	// Alpha and Beta parameterize the hyperbolic decay f(i) = Alpha/(i+Beta)
	// fitted through (1, Raw[0]) and (Cutoff, Raw[Cutoff-1]). Both are zero
	// when the spectrum is flat and no fit was applied.
	Alpha float64
	Beta  float64
}

// Dim returns the feature dimension of the model.
func (m Model) Dim() int { return len(m.Mean) }

// Trusted reports whether the 0-based axis index kept its sample eigenvalue.
func (m Model) Trusted(axis int) bool { return axis+1 < m.Cutoff }
