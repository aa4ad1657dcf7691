// Package generate implements the two synthesis collaborators: the spectral
// (eigen-pushed) generator and the density (neighbor-weighted) generator.
// Both honor the same execution mode object: a parallel flag that fans the
// requested count out across workers, and a progress flag that renders a live
// tracker while samples are produced.
package generate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/progress"
	"golang.org/x/sync/errgroup"

	"rebalance/ports"
)

// synthFunc produces one sample for slot idx using the worker's generator.
type synthFunc func(idx int, r *rand.Rand) []float64

// runSynthesis fills exactly count rows via fn, sequentially or across
// workers, with an optional progress tracker. Worker RNG streams are derived
// from the stream name so sequential runs with the same seed are replayable.
func runSynthesis(ctx context.Context, cfg synthConfig, fn synthFunc) ([][]float64, error) {
	out := make([][]float64, cfg.count)

	var tracker *progress.Tracker
	if cfg.mode.Progress {
		pw := cfg.progressWriter
		if pw == nil {
			pw = newProgressWriter()
		}
		tracker = &progress.Tracker{Message: cfg.message, Total: int64(cfg.count)}
		pw.AppendTracker(tracker)
		go pw.Render()
		defer pw.Stop()
	}

	if !cfg.mode.Parallel {
		r := cfg.rng.Stream(cfg.stream, cfg.seed)
		for i := 0; i < cfg.count; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			out[i] = fn(i, r)
			if tracker != nil {
				tracker.Increment(1)
			}
		}
		markDone(tracker)
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > cfg.count {
		workers = cfg.count
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (cfg.count + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > cfg.count {
			hi = cfg.count
		}
		if lo >= hi {
			break
		}
		r := cfg.rng.Stream(fmt.Sprintf("%s/worker-%d", cfg.stream, w), cfg.seed)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				out[i] = fn(i, r)
				if tracker != nil {
					tracker.Increment(1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	markDone(tracker)
	return out, nil
}

type synthConfig struct {
	count          int
	mode           ports.ExecMode
	rng            ports.RNGSource
	stream         string
	seed           int64
	message        string
	progressWriter progress.Writer
}

func newProgressWriter() progress.Writer {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetAutoStop(true)
	return pw
}

func markDone(tracker *progress.Tracker) {
	if tracker != nil {
		tracker.MarkAsDone()
	}
}
