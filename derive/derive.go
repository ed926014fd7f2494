// Package derive computes speedups and best configurations from loaded
// benchmark results.
package derive

import (
	"sort"

	"github.com/weiihann/benchviz/results"
)

// Point is the speedup measured at one worker count.
type Point struct {
	Workers int     `json:"workers"`
	Speedup float64 `json:"speedup"`
}

// Efficiency returns the speedup per worker, or 0 when there are no
// workers.
func (p Point) Efficiency() float64 {
	if p.Workers <= 0 {
		return 0
	}

	return p.Speedup / float64(p.Workers)
}

// Best is the fastest observed configuration of one implementation on one
// dataset.
type Best struct {
	Dataset        string                 `json:"dataset"`
	Implementation results.Implementation `json:"implementation"`
	Workers        int                    `json:"workers,omitempty"`
	TimeSec        float64                `json:"time_sec"`
	Nodes          float64                `json:"nodes"`
}

// Ratio returns baseline/measured, or 0 when measured is not positive.
func Ratio(baseline, measured float64) float64 {
	if measured <= 0 {
		return 0
	}

	return baseline / measured
}

// Baselines returns the sequential time per dataset. A dataset measured
// more than once keeps its last row.
func Baselines(seq *results.Table) map[string]results.Row {
	out := make(map[string]results.Row)
	if seq == nil {
		return out
	}

	for _, r := range seq.Rows {
		out[r.Dataset] = r
	}

	return out
}

// Speedups returns, for every dataset in the sequential baseline, the
// speedup of each row of par sorted by worker count. Datasets missing
// from the baseline are skipped.
func Speedups(seq, par *results.Table) map[string][]Point {
	baselines := Baselines(seq)
	out := make(map[string][]Point)

	if par == nil {
		return out
	}

	for _, r := range par.Rows {
		base, ok := baselines[r.Dataset]
		if !ok {
			continue
		}

		out[r.Dataset] = append(out[r.Dataset], Point{
			Workers: r.Workers,
			Speedup: Ratio(base.TotalTimeSec, r.TotalTimeSec),
		})
	}

	for ds := range out {
		sort.SliceStable(out[ds], func(i, j int) bool {
			return out[ds][i].Workers < out[ds][j].Workers
		})
	}

	return out
}

// BestRows returns the row with minimum total time per dataset in t. On
// ties the first row wins.
func BestRows(t *results.Table) map[string]results.Row {
	out := make(map[string]results.Row)
	if t == nil {
		return out
	}

	for _, r := range t.Rows {
		best, ok := out[r.Dataset]
		if !ok || r.TotalTimeSec < best.TotalTimeSec {
			out[r.Dataset] = r
		}
	}

	return out
}

// Summary maps dataset to implementation to its best configuration.
type Summary map[string]map[results.Implementation]Best

// Get returns the best configuration for ds and impl.
func (s Summary) Get(ds string, impl results.Implementation) (Best, bool) {
	b, ok := s[ds][impl]

	return b, ok
}

// Datasets returns the datasets in s, sorted.
func (s Summary) Datasets() []string {
	names := make([]string, 0, len(s))
	for ds := range s {
		names = append(names, ds)
	}

	sort.Strings(names)

	return names
}

// BestConfigs returns the best configuration of each loaded implementation
// for every dataset in the sequential baseline. The sequential entry is
// the baseline row itself.
func BestConfigs(set results.Set) Summary {
	baselines := Baselines(set.Sequential)
	summary := make(Summary, len(baselines))

	for ds, r := range baselines {
		summary[ds] = map[results.Implementation]Best{
			results.Sequential: toBest(r),
		}
	}

	for _, impl := range set.ParallelImplementations() {
		for ds, r := range BestRows(set.Table(impl)) {
			if _, ok := summary[ds]; !ok {
				continue
			}

			summary[ds][impl] = toBest(r)
		}
	}

	return summary
}

func toBest(r results.Row) Best {
	return Best{
		Dataset:        r.Dataset,
		Implementation: r.Implementation,
		Workers:        r.Workers,
		TimeSec:        r.TotalTimeSec,
		Nodes:          r.NodesExplored,
	}
}
