// Package sample generates deterministic synthetic benchmark result CSVs in
// the layout written by the sequential, OpenMP and OpenMPI benchmark
// binaries.
package sample

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	mrand "math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/weiihann/benchviz/results"
)

// Iterations is the number of runs each benchmark binary sums over.
const Iterations = 5

// Summary contains statistics about the generated results.
type Summary struct {
	Datasets       int
	SequentialRows int
	OpenMPRows     int
	OpenMPIRows    int
}

// Config controls result generation.
type Config struct {
	// Datasets are the dataset file names to generate results for.
	Datasets []string
	// Threads and Processes are the worker counts measured for OpenMP and
	// OpenMPI.
	Threads   []int
	Processes []int
	// MinTime and MaxTime bound the sequential total time in seconds.
	MinTime float64
	MaxTime float64
	// Distribution spreads the serial fraction of each dataset:
	// uniform, low or high.
	Distribution string
	// Noise is the relative jitter applied to every parallel time.
	Noise float64
	// DatasetDir, when set, prefixes OpenMPI dataset names the way the MPI
	// binary records its input path.
	DatasetDir string
	Seed       int64
}

// DefaultConfig returns a small but complete configuration.
func DefaultConfig() Config {
	return Config{
		Datasets: []string{
			"benchmark_fast_items.txt",
			"130_subset_sum.txt",
			"85_items_strongly_correlated.txt",
		},
		Threads:      []int{1, 2, 4, 8},
		Processes:    []int{1, 2, 4, 8},
		MinTime:      1,
		MaxTime:      30,
		Distribution: "uniform",
		Noise:        0.05,
		DatasetDir:   "data",
		Seed:         1,
	}
}

// Generator produces deterministic results from a Config.
type Generator struct {
	cfg Config
	rng *mrand.Rand
}

// NewGenerator creates a Generator from the given Config.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg: cfg,
		rng: mrand.New(mrand.NewSource(cfg.Seed)),
	}
}

var header = []string{
	results.ColDataset,
	"implementation",
	"", // worker column, filled per implementation
	results.ColIterations,
	results.ColTotalTimeSec,
	results.ColAvgTimeSec,
	results.ColNodesExplored,
	results.ColNodesPruned,
	results.ColMaxValue,
}

// dataset is the ground truth behind one dataset's synthetic measurements.
type dataset struct {
	name           string
	seqTime        float64
	serialFraction float64
	nodes          float64
	maxValue       float64
}

// Generate writes the three result CSVs into dir and returns a Summary.
func (g *Generator) Generate(dir string) (Summary, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create results dir: %w", err)
	}

	var summary Summary

	fractions := g.serialFractions()
	datasets := make([]dataset, len(g.cfg.Datasets))

	for i, name := range g.cfg.Datasets {
		datasets[i] = dataset{
			name:           name,
			seqTime:        g.randomTime(),
			serialFraction: fractions[i],
			nodes:          math.Round(1e5 + g.rng.Float64()*5e6),
			maxValue:       math.Round(100 + g.rng.Float64()*900),
		}
	}

	summary.Datasets = len(datasets)

	for _, impl := range results.KnownImplementations() {
		path := results.ResolvePath(dir, impl)

		n, err := g.writeFile(path, impl, datasets)
		if err != nil {
			return summary, fmt.Errorf("write %s: %w", impl, err)
		}

		switch impl {
		case results.Sequential:
			summary.SequentialRows = n
		case results.OpenMP:
			summary.OpenMPRows = n
		case results.OpenMPI:
			summary.OpenMPIRows = n
		}
	}

	return summary, nil
}

func (g *Generator) writeFile(
	path string,
	impl results.Implementation,
	datasets []dataset,
) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n, err := g.write(f, impl, datasets)
	if err != nil {
		f.Close()

		return n, err
	}

	return n, f.Close()
}

func (g *Generator) write(
	w io.Writer,
	impl results.Implementation,
	datasets []dataset,
) (int, error) {
	cw := csv.NewWriter(w)

	if err := cw.Write(headerFor(impl)); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	rows := 0

	for _, ds := range datasets {
		for _, workers := range g.workers(impl) {
			if err := cw.Write(g.record(impl, ds, workers)); err != nil {
				return rows, fmt.Errorf("write record: %w", err)
			}

			rows++
		}
	}

	cw.Flush()

	return rows, cw.Error()
}

func headerFor(impl results.Implementation) []string {
	out := make([]string, 0, len(header))

	for _, col := range header {
		if col == "" {
			col = impl.WorkerColumn()
			if col == "" {
				continue
			}
		}

		out = append(out, col)
	}

	return out
}

// workers returns the worker counts to emit for impl. Sequential has a
// single row with no worker column.
func (g *Generator) workers(impl results.Implementation) []int {
	switch impl {
	case results.OpenMP:
		return g.cfg.Threads
	case results.OpenMPI:
		return g.cfg.Processes
	default:
		return []int{0}
	}
}

func (g *Generator) record(
	impl results.Implementation,
	ds dataset,
	workers int,
) []string {
	total := ds.seqTime
	nodes := ds.nodes

	if workers > 0 {
		// Amdahl's law with jitter; parallel search explores extra nodes.
		ideal := ds.seqTime * (ds.serialFraction + (1-ds.serialFraction)/float64(workers))
		total = ideal * (1 + g.cfg.Noise*(2*g.rng.Float64()-1))
		nodes = math.Round(ds.nodes * (1 + 0.02*float64(workers-1)*g.rng.Float64()))
	}

	name := ds.name
	if impl == results.OpenMPI && g.cfg.DatasetDir != "" {
		name = filepath.Join(g.cfg.DatasetDir, name)
	}

	rec := []string{name, string(impl)}
	if impl.WorkerColumn() != "" {
		rec = append(rec, strconv.Itoa(workers))
	}

	pruned := math.Round(nodes * (0.2 + 0.3*g.rng.Float64()))

	return append(rec,
		strconv.Itoa(Iterations),
		formatFloat(total),
		formatFloat(total/Iterations),
		formatFloat(nodes*Iterations),
		formatFloat(pruned*Iterations),
		formatFloat(ds.maxValue),
	)
}

func (g *Generator) randomTime() float64 {
	lo, hi := g.cfg.MinTime, g.cfg.MaxTime
	if hi <= lo {
		return lo
	}

	return lo + g.rng.Float64()*(hi-lo)
}

// serialFractions returns the non-parallelisable share of each dataset's
// work.
func (g *Generator) serialFractions() []float64 {
	dist := make([]float64, len(g.cfg.Datasets))

	switch g.cfg.Distribution {
	case "low":
		for i := range dist {
			dist[i] = 0.01 + 0.09*g.rng.Float64()
		}

	case "high":
		for i := range dist {
			dist[i] = 0.3 + 0.5*g.rng.Float64()
		}

	case "uniform":
		for i := range dist {
			dist[i] = 0.01 + 0.79*g.rng.Float64()
		}

	default:
		// Fall back to uniform if unknown distribution.
		for i := range dist {
			dist[i] = 0.01 + 0.79*g.rng.Float64()
		}
	}

	return dist
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
