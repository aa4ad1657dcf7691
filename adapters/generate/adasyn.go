package generate

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/montanaflynn/stats"

	"rebalance/domain/core"
	"rebalance/domain/dataset"
	"rebalance/ports"
)

// ADASYN is the density generator: each minority seed gets a share of the
// requested count proportional to the majority fraction among its nearest
// neighbors, and each synthetic sample interpolates between the seed and one
// of its nearest same-class neighbors. Matrices cross this boundary in the
// transposed feature-major layout.
type ADASYN struct {
	rng ports.RNGSource
	pw  progress.Writer
}

// NewADASYN creates a density generator backed by a seeded RNG source.
func NewADASYN(rng ports.RNGSource) *ADASYN {
	return &ADASYN{rng: rng}
}

// SetProgressWriter routes progress rendering to a shared writer.
func (g *ADASYN) SetProgressWriter(pw progress.Writer) {
	g.pw = pw
}

// Generate synthesizes exactly req.Count sample columns.
func (g *ADASYN) Generate(ctx context.Context, req ports.DensityRequest) (dataset.Transposed, error) {
	if req.Count < 0 {
		return nil, fmt.Errorf("density generator: negative count %d", req.Count)
	}
	if req.Count == 0 {
		return dataset.Transposed{}, nil
	}
	if req.InterpNeighbors < 1 || req.DensityNeighbors < 1 {
		return nil, fmt.Errorf("density generator: neighbor counts must be >= 1, got k=%d m=%d",
			req.InterpNeighbors, req.DensityNeighbors)
	}

	minority := req.Minority.Untranspose()
	majority := req.Majority.Untranspose()
	if minority.Rows() < 2 {
		return nil, core.NewInsufficientSamplesError(minority.Rows())
	}
	if majority.Rows() > 0 && minority.Cols() != majority.Cols() {
		return nil, core.NewDimensionMismatchError(minority.Cols(), majority.Cols())
	}

	seeds, err := allocateSeeds(minority, majority, req.Count, req.DensityNeighbors)
	if err != nil {
		return nil, err
	}

	// Neighbor lists are shared read-only across workers.
	interp := sameClassNeighbors(minority, req.InterpNeighbors)

	n := minority.Cols()
	rows, err := runSynthesis(ctx, synthConfig{
		count:          req.Count,
		mode:           req.Mode,
		rng:            g.rng,
		stream:         "adasyn",
		seed:           req.Seed,
		message:        "synthesizing density samples",
		progressWriter: g.pw,
	}, func(idx int, r *rand.Rand) []float64 {
		seed := seeds[idx]
		nbrs := interp[seed]
		mate := nbrs[r.Intn(len(nbrs))]
		lambda := r.Float64()

		s := make([]float64, n)
		for j := 0; j < n; j++ {
			s[j] = minority[seed][j] + lambda*(minority[mate][j]-minority[seed][j])
		}
		return s
	})
	if err != nil {
		return nil, err
	}
	return dataset.Matrix(rows).Transpose(), nil
}

// allocateSeeds assigns each of the count synthesis slots to a minority seed
// index. Seeds surrounded by more majority neighbors receive proportionally
// more slots; the split is exact via largest-remainder rounding.
func allocateSeeds(minority, majority dataset.Matrix, count, m int) ([]int, error) {
	pool := dataset.Union(minority, majority)
	poscnt := minority.Rows()

	ratios := make([]float64, poscnt)
	for i := 0; i < poscnt; i++ {
		nbrs := nearestIndices(minority[i], pool, i, m)
		majorityHits := 0
		for _, nb := range nbrs {
			if nb >= poscnt {
				majorityHits++
			}
		}
		ratios[i] = float64(majorityHits) / float64(len(nbrs))
	}

	total, err := stats.Sum(stats.Float64Data(ratios))
	if err != nil {
		return nil, fmt.Errorf("density generator: %w", err)
	}

	weights := make([]float64, poscnt)
	if total == 0 {
		// No seed borders the majority class; spread generation uniformly.
		for i := range weights {
			weights[i] = 1.0 / float64(poscnt)
		}
	} else {
		for i, r := range ratios {
			weights[i] = r / total
		}
	}

	shares := exactShares(weights, count)
	seeds := make([]int, 0, count)
	for i, share := range shares {
		for s := 0; s < share; s++ {
			seeds = append(seeds, i)
		}
	}
	return seeds, nil
}

// exactShares rounds weight*count down per seed and hands the remainder to the
// largest fractional parts, so the shares always sum to count.
func exactShares(weights []float64, count int) []int {
	type frac struct {
		idx  int
		part float64
	}

	shares := make([]int, len(weights))
	fracs := make([]frac, len(weights))
	assigned := 0
	for i, w := range weights {
		exact := w * float64(count)
		shares[i] = int(exact)
		assigned += shares[i]
		fracs[i] = frac{idx: i, part: exact - float64(shares[i])}
	}

	sort.SliceStable(fracs, func(a, b int) bool { return fracs[a].part > fracs[b].part })
	for r := 0; r < count-assigned; r++ {
		shares[fracs[r%len(fracs)].idx]++
	}
	return shares
}

// sameClassNeighbors returns, per minority sample, its k nearest minority
// neighbors (capped at poscnt-1).
func sameClassNeighbors(minority dataset.Matrix, k int) [][]int {
	poscnt := minority.Rows()
	if k > poscnt-1 {
		k = poscnt - 1
	}
	out := make([][]int, poscnt)
	for i := 0; i < poscnt; i++ {
		out[i] = nearestIndices(minority[i], minority, i, k)
	}
	return out
}

// nearestIndices returns the indices of the k nearest rows of pool to x by
// squared Euclidean distance, excluding the row at skip.
func nearestIndices(x []float64, pool dataset.Matrix, skip, k int) []int {
	type cand struct {
		idx  int
		dist float64
	}

	cands := make([]cand, 0, pool.Rows())
	for i, row := range pool {
		if i == skip {
			continue
		}
		var d float64
		for j := range x {
			diff := row[j] - x[j]
			d += diff * diff
		}
		cands = append(cands, cand{idx: i, dist: d})
	}

	sort.SliceStable(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
	if k > len(cands) {
		k = len(cands)
	}
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = cands[i].idx
	}
	return out
}

var _ ports.DensityGenerator = (*ADASYN)(nil)
