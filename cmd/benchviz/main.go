// Package main provides the CLI entry point for benchviz, which turns
// sequential, OpenMP and OpenMPI benchmark results into speedup charts.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weiihann/benchviz/chart"
	"github.com/weiihann/benchviz/derive"
	"github.com/weiihann/benchviz/report"
	"github.com/weiihann/benchviz/results"
	"github.com/weiihann/benchviz/sample"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("benchviz failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "benchviz",
		Short: "Speedup charts for parallel knapsack benchmarks",
		Long: `Benchviz reads the CSV files written by the sequential, OpenMP and
OpenMPI branch-and-bound benchmarks, computes speedups against the
sequential baseline and renders comparison charts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(v, cmd); err != nil {
				return err
			}

			return setLogLevel(level, v.GetString(keyLogLevel))
		},
	}

	addPersistentFlags(root)

	root.AddCommand(newPlotCmd(logger, v))
	root.AddCommand(newSummaryCmd(logger, v))
	root.AddCommand(newSampleCmd(logger, v))

	return root
}

func newPlotCmd(logger *slog.Logger, v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "plot",
		Short: "Render speedup and summary charts",
		Long: `Load the benchmark results, compute speedups and write
speedup_by_impl, time_by_impl and nodes_by_impl figures to the output
directory. Missing OpenMP or OpenMPI results are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlot(cmd.Context(), logger, resolveSettings(v))
		},
	}
}

func runPlot(ctx context.Context, logger *slog.Logger, cfg settings) error {
	a, err := analyze(ctx, logger, cfg)
	if err != nil || a.Empty() {
		return err
	}

	renderer, err := chart.NewRenderer(chart.Options{
		OutputDir: cfg.outputDir,
		Format:    cfg.format,
		DPI:       cfg.dpi,
	}, logger)
	if err != nil {
		return err
	}

	written, err := renderer.Render(ctx, a)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	logger.InfoContext(ctx, "plots complete",
		slog.Int("figures", len(written)),
		slog.String("output_dir", cfg.outputDir),
	)

	return nil
}

// analyze loads and derives the results. An empty analysis means there was
// no sequential baseline; that has already been logged.
func analyze(
	ctx context.Context,
	logger *slog.Logger,
	cfg settings,
) (*derive.Analysis, error) {
	set, err := results.LoadSet(ctx, logger, cfg.resultsDir)
	if err != nil {
		return nil, err
	}

	a := derive.Analyze(set)

	if a.Empty() {
		logger.InfoContext(ctx,
			"no sequential benchmark data found; nothing to plot",
			slog.String("path", results.ResolvePath(cfg.resultsDir, results.Sequential)),
		)

		return a, nil
	}

	logger.InfoContext(ctx, "results analyzed",
		slog.Int("datasets", len(a.Datasets)),
		slog.Any("implementations", a.Implementations),
	)

	return a, nil
}

func newSummaryCmd(logger *slog.Logger, v *viper.Viper) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the best configuration of each implementation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(
				cmd.Context(), logger, resolveSettings(v), output, cmd.OutOrStdout(),
			)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "markdown",
		"Report format: markdown, table, json, yaml, html")

	return cmd
}

func runSummary(
	ctx context.Context,
	logger *slog.Logger,
	cfg settings,
	output string,
	w io.Writer,
) error {
	generate, err := reportFunc(output)
	if err != nil {
		return err
	}

	a, err := analyze(ctx, logger, cfg)
	if err != nil || a.Empty() {
		return err
	}

	if err := generate(w, a); err != nil {
		return fmt.Errorf("generate %s report: %w", output, err)
	}

	return nil
}

func reportFunc(output string) (func(io.Writer, *derive.Analysis) error, error) {
	switch output {
	case "markdown", "md":
		return report.Generate, nil
	case "table":
		return report.GenerateTable, nil
	case "json":
		return report.GenerateJSON, nil
	case "yaml":
		return report.GenerateYAML, nil
	case "html":
		return report.GenerateHTML, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", output)
	}
}

func newSampleCmd(logger *slog.Logger, v *viper.Viper) *cobra.Command {
	defaults := sample.DefaultConfig()

	var (
		outDir       string
		datasets     []string
		threads      []int
		processes    []int
		minTime      float64
		maxTime      float64
		distribution string
		noise        float64
		seed         int64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write synthetic benchmark results",
		Long: `Generate deterministic sequential, OpenMP and OpenMPI result CSVs
in the layout the benchmark binaries write, for trying out the charts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := outDir
			if dir == "" {
				dir = resolveSettings(v).resultsDir
			}

			return runSample(cmd.Context(), logger, dir, sample.Config{
				Datasets:     datasets,
				Threads:      threads,
				Processes:    processes,
				MinTime:      minTime,
				MaxTime:      maxTime,
				Distribution: distribution,
				Noise:        noise,
				DatasetDir:   defaults.DatasetDir,
				Seed:         seed,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "out", "",
		"Directory to write into (default: the results dir)")
	flags.StringSliceVar(&datasets, "datasets", defaults.Datasets,
		"Dataset file names")
	flags.IntSliceVar(&threads, "threads", defaults.Threads,
		"OpenMP thread counts")
	flags.IntSliceVar(&processes, "processes", defaults.Processes,
		"OpenMPI process counts")
	flags.Float64Var(&minTime, "min-time", defaults.MinTime,
		"Minimum sequential time in seconds")
	flags.Float64Var(&maxTime, "max-time", defaults.MaxTime,
		"Maximum sequential time in seconds")
	flags.StringVar(&distribution, "distribution", defaults.Distribution,
		"Serial fraction distribution: uniform, low, high")
	flags.Float64Var(&noise, "noise", defaults.Noise,
		"Relative jitter applied to parallel times")
	flags.Int64Var(&seed, "seed", defaults.Seed,
		"Random seed")

	return cmd
}

func runSample(
	ctx context.Context,
	logger *slog.Logger,
	dir string,
	cfg sample.Config,
) error {
	summary, err := sample.NewGenerator(cfg).Generate(dir)
	if err != nil {
		return fmt.Errorf("generate sample results: %w", err)
	}

	logger.InfoContext(ctx, "sample results written",
		slog.String("dir", dir),
		slog.Int("datasets", summary.Datasets),
		slog.Int("sequential_rows", summary.SequentialRows),
		slog.Int("openmp_rows", summary.OpenMPRows),
		slog.Int("openmpi_rows", summary.OpenMPIRows),
	)

	return nil
}
