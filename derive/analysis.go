package derive

import (
	"sort"

	"github.com/weiihann/benchviz/results"
)

// Analysis bundles everything the charts and reports need.
type Analysis struct {
	// Datasets are the datasets of the sequential baseline, sorted.
	Datasets []string `json:"datasets"`
	// Baseline is the sequential total time per dataset.
	Baseline map[string]float64 `json:"baseline"`
	// Implementations lists the optional implementations that were
	// loaded, in display order.
	Implementations []results.Implementation `json:"implementations"`
	// Speedups holds per-implementation, per-dataset speedup curves.
	Speedups map[results.Implementation]map[string][]Point `json:"speedups"`
	Best     Summary                                       `json:"best"`
}

// Analyze derives speedups and best configurations from set.
func Analyze(set results.Set) *Analysis {
	baselines := Baselines(set.Sequential)

	a := &Analysis{
		Datasets:        make([]string, 0, len(baselines)),
		Baseline:        make(map[string]float64, len(baselines)),
		Implementations: set.ParallelImplementations(),
		Speedups:        make(map[results.Implementation]map[string][]Point),
		Best:            BestConfigs(set),
	}

	for ds, r := range baselines {
		a.Datasets = append(a.Datasets, ds)
		a.Baseline[ds] = r.TotalTimeSec
	}

	sort.Strings(a.Datasets)

	for _, impl := range a.Implementations {
		a.Speedups[impl] = Speedups(set.Sequential, set.Table(impl))
	}

	return a
}

// Empty reports whether there is no sequential baseline to compare against.
func (a *Analysis) Empty() bool {
	return a == nil || len(a.Datasets) == 0
}

// HasParallel reports whether any optional implementation was loaded.
func (a *Analysis) HasParallel() bool {
	return a != nil && len(a.Implementations) > 0
}

// WorkerCounts returns the union of worker counts measured for ds across
// all implementations, ascending.
func (a *Analysis) WorkerCounts(ds string) []int {
	seen := make(map[int]struct{})

	for _, impl := range a.Implementations {
		for _, p := range a.Speedups[impl][ds] {
			seen[p.Workers] = struct{}{}
		}
	}

	counts := make([]int, 0, len(seen))
	for c := range seen {
		counts = append(counts, c)
	}

	sort.Ints(counts)

	return counts
}

// SpeedupAt returns the speedup of impl on ds at the given worker count.
// When the count was measured more than once the last measurement wins.
func (a *Analysis) SpeedupAt(
	impl results.Implementation,
	ds string,
	workers int,
) (float64, bool) {
	var (
		speedup float64
		found   bool
	)

	for _, p := range a.Speedups[impl][ds] {
		if p.Workers == workers {
			speedup = p.Speedup
			found = true
		}
	}

	return speedup, found
}

// MaxSpeedup returns the largest speedup across all datasets and
// implementations, or 0 if there are none.
func (a *Analysis) MaxSpeedup() float64 {
	var m float64

	for _, byDataset := range a.Speedups {
		for _, points := range byDataset {
			for _, p := range points {
				if p.Speedup > m {
					m = p.Speedup
				}
			}
		}
	}

	return m
}

// BestSpeedup returns the speedup of the best configuration of impl on ds
// relative to the sequential baseline.
func (a *Analysis) BestSpeedup(ds string, impl results.Implementation) (float64, bool) {
	b, ok := a.Best.Get(ds, impl)
	if !ok {
		return 0, false
	}

	return Ratio(a.Baseline[ds], b.TimeSec), true
}
