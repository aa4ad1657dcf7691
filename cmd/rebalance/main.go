package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"rebalance/adapters/excel"
	"rebalance/adapters/generate"
	"rebalance/app"
	"rebalance/domain/core"
	"rebalance/internal/eigen"
	"rebalance/internal/rng"
	"rebalance/ports"
)

func init() {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: "15:04:05",
		}),
	))
}

func main() {
	// .env may carry defaults; flags always win.
	_ = godotenv.Load()

	input := flag.String("input", envOr("REBALANCE_INPUT", ""), "input dataset (.xlsx or .csv)")
	output := flag.String("output", envOr("REBALANCE_OUTPUT", ""), "output dataset (.xlsx or .csv)")
	target := flag.Int("target", envIntOr("REBALANCE_TARGET", 0), "target minority-class size")
	share := flag.Float64("share", 0.5, "fraction of synthetic samples from the spectral generator [0,1]")
	push := flag.Float64("push", 1.0, "boundary push ratio for the spectral generator")
	k := flag.Int("k", 5, "same-class neighbors for density interpolation")
	m := flag.Int("m", 5, "cross-class neighbors for density weighting")
	seed := flag.Int64("seed", 1, "RNG seed")
	parallel := flag.Bool("parallel", false, "generate samples across workers")
	progressFlag := flag.Bool("progress", false, "render generation progress")
	labelCol := flag.String("label-col", "", "label column name (default: last column)")
	minorityLabel := flag.String("minority-label", "", "minority class label (default: least frequent)")
	threshold := flag.Float64("threshold", 0, "eigenvalue reliability threshold override")
	flag.Parse()

	if *input == "" || *output == "" || *target == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*input, *output, runOptions{
		target:        *target,
		share:         *share,
		push:          *push,
		k:             *k,
		m:             *m,
		seed:          *seed,
		mode:          ports.ExecMode{Parallel: *parallel, Progress: *progressFlag},
		labelCol:      *labelCol,
		minorityLabel: *minorityLabel,
		threshold:     *threshold,
	}); err != nil {
		switch {
		case core.IsPreconditionError(err):
			slog.Error("request rejected", "err", err)
			os.Exit(2)
		case core.IsSpectrumError(err):
			slog.Error("minority spectrum unusable", "err", err)
			os.Exit(1)
		default:
			slog.Error("oversampling failed", "err", err)
			os.Exit(1)
		}
	}
}

type runOptions struct {
	target        int
	share         float64
	push          float64
	k, m          int
	seed          int64
	mode          ports.ExecMode
	labelCol      string
	minorityLabel string
	threshold     float64
}

func run(input, output string, opts runOptions) error {
	reader := excel.NewDataReader(input, excel.ReaderConfig{
		LabelColumn:   opts.labelCol,
		MinorityLabel: opts.minorityLabel,
	})
	split, table, err := reader.ReadSplit()
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}
	slog.Info("dataset loaded",
		"minority", split.MinorityLabel, "minority_count", split.Minority.Rows(),
		"majority", split.MajorityLabel, "majority_count", split.Majority.Rows())

	estimator := eigen.NewEstimator()
	if opts.threshold > 0 {
		estimator.SetThreshold(opts.threshold)
	}

	source := rng.NewHashedSource()
	service := app.NewOversampleService(estimator, generate.NewEPSO(source), generate.NewADASYN(source))

	result, err := service.Oversample(context.Background(), app.OversampleRequest{
		Minority:         split.Minority,
		Majority:         split.Majority,
		Target:           opts.target,
		SpectralShare:    opts.share,
		PushRatio:        opts.push,
		InterpNeighbors:  opts.k,
		DensityNeighbors: opts.m,
		Mode:             opts.mode,
		Seed:             opts.seed,
	})
	if err != nil {
		return err
	}
	slog.Info("synthesis complete",
		"run_id", result.Audit.RunID.String(),
		"spectral", result.Audit.SpectralCount,
		"density", result.Audit.DensityCount,
		"cutoff", result.Audit.Cutoff,
		"runtime_ms", result.Audit.RuntimeMs)

	writer := excel.NewDataWriter(output)
	if err := writer.WriteAugmented(table, result.Synthetic, split.MinorityLabel); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
