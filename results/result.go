// Package results loads benchmark result CSVs written by the sequential,
// OpenMP and OpenMPI knapsack benchmark binaries.
package results

import "sort"

// Row holds one record from a benchmark result CSV.
type Row struct {
	Dataset        string         `json:"dataset"`
	Implementation Implementation `json:"implementation"`
	// Workers is the thread or process count. Zero for sequential rows.
	Workers       int     `json:"workers,omitempty"`
	Iterations    int     `json:"iterations,omitempty"`
	TotalTimeSec  float64 `json:"total_time_sec"`
	AvgTimeSec    float64 `json:"avg_time_sec,omitempty"`
	NodesExplored float64 `json:"nodes_explored"`
	NodesPruned   float64 `json:"nodes_pruned,omitempty"`
	MaxValue      float64 `json:"max_value,omitempty"`
}

// Table is the set of rows read from one implementation's CSV, in input
// order.
type Table struct {
	Implementation Implementation
	Path           string
	Rows           []Row
}

// Len returns the number of rows in t. A nil table has no rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Rows)
}

// ByDataset groups the rows of t by dataset, preserving input order within
// each group.
func (t *Table) ByDataset() map[string][]Row {
	out := make(map[string][]Row)
	if t == nil {
		return out
	}

	for _, r := range t.Rows {
		out[r.Dataset] = append(out[r.Dataset], r)
	}

	return out
}

// Datasets returns the distinct dataset names in t, sorted.
func (t *Table) Datasets() []string {
	groups := t.ByDataset()

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Set holds the tables for every implementation. Sequential is never nil;
// an absent optional source is simply missing from Parallel.
type Set struct {
	Sequential *Table
	Parallel   map[Implementation]*Table
}

// Table returns the table for impl, or nil if it was not loaded.
func (s Set) Table(impl Implementation) *Table {
	if impl == Sequential {
		return s.Sequential
	}

	return s.Parallel[impl]
}

// ParallelImplementations returns the optional implementations that were
// loaded, in display order.
func (s Set) ParallelImplementations() []Implementation {
	var out []Implementation

	for _, impl := range KnownImplementations() {
		if impl == Sequential {
			continue
		}

		if _, ok := s.Parallel[impl]; ok {
			out = append(out, impl)
		}
	}

	return out
}
