package ports

import (
	"context"

	"rebalance/domain/dataset"
	"rebalance/domain/spectrum"
)

// ExecMode selects how a generator executes a synthesis request. The two flags
// are orthogonal: parallel controls worker fan-out, progress controls live
// reporting. Both generator families accept the same mode object.
type ExecMode struct {
	Parallel bool `json:"parallel"`
	Progress bool `json:"progress"`
}

// SpectralRequest asks for synthetic minority samples shaped by the
// regularized eigen-spectrum.
type SpectralRequest struct {
	Model    *spectrum.Model
	Minority dataset.Matrix
	Majority dataset.Matrix

	// PushRatio scales how far samples are projected toward the class
	// boundary along the unreliable eigen-axes.
	PushRatio float64

	Count int
	Mode  ExecMode
	Seed  int64
}

// SpectralGenerator creates minority samples along the minority eigenbasis.
// Generate must return exactly Count rows of the model's dimension.
type SpectralGenerator interface {
	Generate(ctx context.Context, req SpectralRequest) (dataset.Matrix, error)
}

// DensityRequest asks for neighbor-interpolated minority samples. Matrices
// cross this boundary in the transposed (feature-major) layout; the result
// comes back transposed as well, with exactly Count sample columns.
type DensityRequest struct {
	Minority dataset.Transposed
	Majority dataset.Transposed

	Count int

	// InterpNeighbors is the number of nearest same-class neighbors a sample
	// is interpolated against (k).
	InterpNeighbors int

	// DensityNeighbors is the number of nearest neighbors across both classes
	// used to weight generation density per minority seed (m).
	DensityNeighbors int

	Mode ExecMode
	Seed int64
}

// DensityGenerator creates minority samples by neighbor-density-weighted
// interpolation.
type DensityGenerator interface {
	Generate(ctx context.Context, req DensityRequest) (dataset.Transposed, error)
}
