package generate

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/montanaflynn/stats"

	"rebalance/domain/dataset"
	"rebalance/ports"
)

// EPSO is the spectral generator: it draws Gaussian noise shaped axis-wise by
// the regularized eigen-spectrum, rotates it into feature space through the
// minority eigenbasis, and pushes the unreliable-subspace component of each
// sample toward the majority centroid by the request's push ratio.
type EPSO struct {
	rng ports.RNGSource
	pw  progress.Writer
}

// NewEPSO creates a spectral generator backed by a seeded RNG source.
func NewEPSO(rng ports.RNGSource) *EPSO {
	return &EPSO{rng: rng}
}

// SetProgressWriter routes progress rendering to a shared writer, so the two
// generator families can report on the same terminal region.
func (g *EPSO) SetProgressWriter(pw progress.Writer) {
	g.pw = pw
}

// Generate synthesizes exactly req.Count samples.
func (g *EPSO) Generate(ctx context.Context, req ports.SpectralRequest) (dataset.Matrix, error) {
	if req.Count < 0 {
		return nil, fmt.Errorf("spectral generator: negative count %d", req.Count)
	}
	if req.Count == 0 {
		return dataset.Matrix{}, nil
	}
	if req.Model == nil {
		return nil, fmt.Errorf("spectral generator: nil spectrum model")
	}

	n := req.Model.Dim()
	push := g.boundaryPush(req, n)

	// Per-axis noise scale: standard deviation along each eigen-axis.
	scale := make([]float64, n)
	for j, v := range req.Model.Values {
		if v > 0 {
			scale[j] = math.Sqrt(v)
		}
	}

	rows, err := runSynthesis(ctx, synthConfig{
		count:          req.Count,
		mode:           req.Mode,
		rng:            g.rng,
		stream:         "epso",
		seed:           req.Seed,
		message:        "synthesizing spectral samples",
		progressWriter: g.pw,
	}, func(_ int, r *rand.Rand) []float64 {
		z := make([]float64, n)
		for j := 0; j < n; j++ {
			z[j] = r.NormFloat64()*scale[j] + push[j]
		}
		// Rotate eigen-space noise back into feature space around the mean.
		x := make([]float64, n)
		for i := 0; i < n; i++ {
			v := req.Model.Mean[i]
			for j := 0; j < n; j++ {
				v += req.Model.Basis[i][j] * z[j]
			}
			x[i] = v
		}
		return x
	})
	if err != nil {
		return nil, err
	}
	return dataset.Matrix(rows), nil
}

// boundaryPush is the eigen-space offset applied to every sample: the
// majority-centroid direction projected onto the unreliable axes, scaled by
// the push ratio. Trusted axes are never pushed.
func (g *EPSO) boundaryPush(req ports.SpectralRequest, n int) []float64 {
	push := make([]float64, n)
	if req.PushRatio == 0 || req.Majority.Rows() == 0 {
		return push
	}

	toward := make([]float64, n)
	cols := req.Majority.Transpose()
	for i := 0; i < n; i++ {
		m, err := stats.Mean(stats.Float64Data(cols[i]))
		if err != nil {
			return push
		}
		toward[i] = m - req.Model.Mean[i]
	}

	for j := 0; j < n; j++ {
		if req.Model.Trusted(j) {
			continue
		}
		var dot float64
		for i := 0; i < n; i++ {
			dot += req.Model.Basis[i][j] * toward[i]
		}
		push[j] = req.PushRatio * dot
	}
	return push
}

var _ ports.SpectralGenerator = (*EPSO)(nil)
