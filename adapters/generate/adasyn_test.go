package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebalance/domain/core"
	"rebalance/domain/dataset"
	"rebalance/internal/rng"
	"rebalance/ports"
)

func densityRequest(count int, mode ports.ExecMode) ports.DensityRequest {
	minority := dataset.Matrix{
		{1, 1}, {2, 1}, {1, 2}, {2, 2}, {1.5, 1.5},
	}
	majority := dataset.Matrix{
		{5, 5}, {6, 5}, {5, 6}, {6, 6}, {4, 4}, {3, 3}, {2.5, 2.5},
	}
	return ports.DensityRequest{
		Minority:         minority.Transpose(),
		Majority:         majority.Transpose(),
		Count:            count,
		InterpNeighbors:  3,
		DensityNeighbors: 4,
		Mode:             mode,
		Seed:             11,
	}
}

func TestADASYN_CountContract(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())

	tests := []struct {
		name  string
		count int
		mode  ports.ExecMode
	}{
		{name: "sequential", count: 9, mode: ports.ExecMode{}},
		{name: "parallel", count: 31, mode: ports.ExecMode{Parallel: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := g.Generate(context.Background(), densityRequest(tt.count, tt.mode))
			require.NoError(t, err)
			// Output keeps the transposed layout: features x samples.
			assert.Equal(t, 2, out.Rows())
			assert.Equal(t, tt.count, out.Cols())
		})
	}
}

func TestADASYN_ZeroCount(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())
	out, err := g.Generate(context.Background(), densityRequest(0, ports.ExecMode{}))
	require.NoError(t, err)
	assert.Equal(t, 0, out.Rows())
}

func TestADASYN_NeighborValidation(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())

	req := densityRequest(5, ports.ExecMode{})
	req.InterpNeighbors = 0
	_, err := g.Generate(context.Background(), req)
	require.Error(t, err)

	req = densityRequest(5, ports.ExecMode{})
	req.DensityNeighbors = 0
	_, err = g.Generate(context.Background(), req)
	require.Error(t, err)
}

func TestADASYN_InsufficientMinority(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())
	req := densityRequest(5, ports.ExecMode{})
	req.Minority = dataset.Matrix{{1, 1}}.Transpose()
	_, err := g.Generate(context.Background(), req)
	require.ErrorIs(t, err, core.ErrInsufficientSamples)
}

func TestADASYN_SamplesStayInMinorityHull(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())
	req := densityRequest(40, ports.ExecMode{})

	out, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	// Interpolation between minority points keeps every feature inside that
	// feature's minority range.
	samples := out.Untranspose()
	for i, s := range samples {
		assert.GreaterOrEqual(t, s[0], 1.0, "sample %d", i)
		assert.LessOrEqual(t, s[0], 2.0, "sample %d", i)
		assert.GreaterOrEqual(t, s[1], 1.0, "sample %d", i)
		assert.LessOrEqual(t, s[1], 2.0, "sample %d", i)
	}
}

func TestADASYN_SequentialDeterminism(t *testing.T) {
	g := NewADASYN(rng.NewHashedSource())
	req := densityRequest(15, ports.ExecMode{})

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExactShares(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		count   int
		want    []int
	}{
		{name: "even split", weights: []float64{0.5, 0.5}, count: 4, want: []int{2, 2}},
		{name: "remainder to largest fraction", weights: []float64{0.6, 0.4}, count: 3, want: []int{2, 1}},
		{name: "single seed", weights: []float64{1.0}, count: 7, want: []int{7}},
		{name: "zero count", weights: []float64{0.3, 0.7}, count: 0, want: []int{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exactShares(tt.weights, tt.count)
			assert.Equal(t, tt.want, got)

			total := 0
			for _, s := range got {
				total += s
			}
			assert.Equal(t, tt.count, total)
		})
	}
}

func TestAllocateSeeds_BoundarySeedsGetMoreSlots(t *testing.T) {
	// One minority point sits inside a majority cluster; the rest form an
	// interior cluster whose 3 nearest pool neighbors are all minority, so
	// only the surrounded point borders the majority class and it must
	// receive every synthesis slot.
	minority := dataset.Matrix{
		{0, 0}, {0.5, 0}, {0, 0.5}, {0.5, 0.5}, // interior cluster
		{10, 10}, // surrounded by majority
	}
	majority := dataset.Matrix{
		{10.2, 10}, {10, 10.2}, {9.8, 10}, {10, 9.8}, {10.2, 10.2},
	}

	seeds, err := allocateSeeds(minority, majority, 10, 3)
	require.NoError(t, err)
	require.Len(t, seeds, 10)

	surrounded := 0
	for _, s := range seeds {
		if s == 4 {
			surrounded++
		}
	}
	assert.Equal(t, 10, surrounded, "surrounded seed should take the whole allocation")
}
