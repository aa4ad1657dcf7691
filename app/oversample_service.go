package app

import (
	"context"
	"log"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"rebalance/domain/core"
	"rebalance/domain/dataset"
	"rebalance/internal/eigen"
	"rebalance/ports"
)

// OversampleService orchestrates one oversampling run: validate, split the
// synthetic count between the spectral and density generators, estimate the
// regularized eigen-spectrum, dispatch both generators, and concatenate their
// output. It is a single-pass pipeline with no retries and no state between
// runs.
type OversampleService struct {
	estimator *eigen.Estimator
	spectral  ports.SpectralGenerator
	density   ports.DensityGenerator
}

// OversampleRequest defines the inputs for one oversampling run.
type OversampleRequest struct {
	Minority dataset.Matrix
	Majority dataset.Matrix

	// Target is the minority-class size to reach, counting existing samples.
	Target int

	// SpectralShare is the fraction of synthetic samples assigned to the
	// spectral generator, in [0,1]; the integer split rounds toward it.
	SpectralShare float64

	// PushRatio is forwarded opaquely to the spectral generator.
	PushRatio float64

	// InterpNeighbors (k) and DensityNeighbors (m) are forwarded opaquely to
	// the density generator.
	InterpNeighbors  int
	DensityNeighbors int

	Mode ports.ExecMode
	Seed int64

	// RunID is optional; a fresh one is generated when empty.
	RunID core.RunID
}

// RunAudit records what one run did, for replay and debugging.
type RunAudit struct {
	RunID         core.RunID     `json:"run_id"`
	SpectralCount int            `json:"spectral_count"`
	DensityCount  int            `json:"density_count"`
	Cutoff        int            `json:"cutoff"`
	Mode          ports.ExecMode `json:"mode"`
	Seed          int64          `json:"seed"`
	RuntimeMs     int64          `json:"runtime_ms"`
}

// OversampleResult is the synthetic sample matrix plus the run audit. The
// matrix has exactly Target - poscnt rows; density samples come first,
// spectral samples after.
type OversampleResult struct {
	Synthetic dataset.Matrix `json:"synthetic"`
	Audit     RunAudit       `json:"audit"`
}

// NewOversampleService wires the estimator and the two generator collaborators.
func NewOversampleService(estimator *eigen.Estimator, spectral ports.SpectralGenerator, density ports.DensityGenerator) *OversampleService {
	return &OversampleService{
		estimator: estimator,
		spectral:  spectral,
		density:   density,
	}
}

// SplitCounts divides the synthetic sample gap between the two generators.
// The spectral generator wins the rounding: its count is the ceiling of
// gap * share.
func SplitCounts(gap int, share float64) (numSpectral, numDensity int) {
	numSpectral = int(math.Ceil(float64(gap) * share))
	if numSpectral > gap {
		numSpectral = gap
	}
	return numSpectral, gap - numSpectral
}

// Oversample runs the pipeline. Generator failures propagate unchanged; every
// validation failure aborts the whole run with no partial result.
func (s *OversampleService) Oversample(ctx context.Context, req OversampleRequest) (*OversampleResult, error) {
	start := time.Now()

	if err := req.Minority.Validate(); err != nil {
		return nil, err
	}
	poscnt := req.Minority.Rows()
	if req.Target < poscnt {
		return nil, core.NewTargetTooSmallError(req.Target, poscnt)
	}
	if req.SpectralShare < 0 || req.SpectralShare > 1 {
		return nil, core.NewInvalidRatioError(req.SpectralShare)
	}

	runID := req.RunID
	if core.ID(runID).IsEmpty() {
		runID = core.RunID(core.NewID())
	}
	audit := RunAudit{
		RunID: runID,
		Mode:  req.Mode,
		Seed:  req.Seed,
	}

	gap := req.Target - poscnt
	if gap == 0 {
		// Nothing to synthesize; neither collaborator may be invoked.
		audit.RuntimeMs = time.Since(start).Milliseconds()
		return &OversampleResult{Synthetic: dataset.Matrix{}, Audit: audit}, nil
	}

	numSpectral, numDensity := SplitCounts(gap, req.SpectralShare)
	audit.SpectralCount = numSpectral
	audit.DensityCount = numDensity

	model, err := s.estimator.Estimate(req.Minority, req.Majority)
	if err != nil {
		return nil, err
	}
	audit.Cutoff = model.Cutoff

	spectralReq := ports.SpectralRequest{
		Model:     model,
		Minority:  req.Minority,
		Majority:  req.Majority,
		PushRatio: req.PushRatio,
		Count:     numSpectral,
		Mode:      req.Mode,
		Seed:      req.Seed,
	}
	densityReq := ports.DensityRequest{
		Minority:         req.Minority.Transpose(),
		Majority:         req.Majority.Transpose(),
		Count:            numDensity,
		InterpNeighbors:  req.InterpNeighbors,
		DensityNeighbors: req.DensityNeighbors,
		Mode:             req.Mode,
		Seed:             req.Seed,
	}

	spectralOut, densityOut, err := s.dispatch(ctx, spectralReq, densityReq)
	if err != nil {
		return nil, err
	}

	audit.RuntimeMs = time.Since(start).Milliseconds()
	log.Printf("[Oversample] run %s: %d spectral + %d density samples in %dms",
		audit.RunID, numSpectral, numDensity, audit.RuntimeMs)

	return &OversampleResult{
		Synthetic: dataset.Concat(densityOut.Untranspose(), spectralOut),
		Audit:     audit,
	}, nil
}

// dispatch invokes the two generators. The requests are independent and share
// only read-only inputs, so in parallel mode they run concurrently; in
// sequential mode the density generator goes first, matching the order its
// output appears in the result.
func (s *OversampleService) dispatch(ctx context.Context, spectralReq ports.SpectralRequest, densityReq ports.DensityRequest) (dataset.Matrix, dataset.Transposed, error) {
	spectralOut := dataset.Matrix{}
	densityOut := dataset.Transposed{}

	if !spectralReq.Mode.Parallel {
		var err error
		if densityReq.Count > 0 {
			if densityOut, err = s.density.Generate(ctx, densityReq); err != nil {
				return nil, nil, err
			}
		}
		if spectralReq.Count > 0 {
			if spectralOut, err = s.spectral.Generate(ctx, spectralReq); err != nil {
				return nil, nil, err
			}
		}
		return spectralOut, densityOut, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if densityReq.Count > 0 {
		g.Go(func() error {
			out, err := s.density.Generate(gctx, densityReq)
			if err != nil {
				return err
			}
			densityOut = out
			return nil
		})
	}
	if spectralReq.Count > 0 {
		g.Go(func() error {
			out, err := s.spectral.Generate(gctx, spectralReq)
			if err != nil {
				return err
			}
			spectralOut = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return spectralOut, densityOut, nil
}
