package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/weiihann/benchviz/results"
)

func seqTable(rows ...results.Row) *results.Table {
	for i := range rows {
		rows[i].Implementation = results.Sequential
	}

	return &results.Table{Implementation: results.Sequential, Rows: rows}
}

func parTable(impl results.Implementation, rows ...results.Row) *results.Table {
	for i := range rows {
		rows[i].Implementation = impl
	}

	return &results.Table{Implementation: impl, Rows: rows}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		measured float64
		want     float64
	}{
		{"equal times", 10, 10, 1},
		{"twice as fast", 10, 5, 2},
		{"slower", 2, 4, 0.5},
		{"zero measured", 10, 0, 0},
		{"negative measured", 10, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.baseline, tt.measured), 1e-12)
		})
	}
}

func TestSpeedupsExample(t *testing.T) {
	seq := seqTable(results.Row{Dataset: "d1", TotalTimeSec: 10.0})
	omp := parTable(results.OpenMP,
		results.Row{Dataset: "d1", Workers: 4, TotalTimeSec: 2.5},
		results.Row{Dataset: "d1", Workers: 2, TotalTimeSec: 4.0},
	)

	got := Speedups(seq, omp)
	require.Len(t, got, 1)
	require.Len(t, got["d1"], 2)

	assert.Equal(t, 2, got["d1"][0].Workers)
	assert.InDelta(t, 2.5, got["d1"][0].Speedup, 1e-12)
	assert.Equal(t, 4, got["d1"][1].Workers)
	assert.InDelta(t, 4.0, got["d1"][1].Speedup, 1e-12)
}

func TestSpeedupsSkipsDatasetsWithoutBaseline(t *testing.T) {
	seq := seqTable(results.Row{Dataset: "d1", TotalTimeSec: 10})
	omp := parTable(results.OpenMP,
		results.Row{Dataset: "d1", Workers: 2, TotalTimeSec: 5},
		results.Row{Dataset: "orphan", Workers: 2, TotalTimeSec: 1},
	)

	got := Speedups(seq, omp)
	assert.Contains(t, got, "d1")
	assert.NotContains(t, got, "orphan")
}

func TestSpeedupsNilTables(t *testing.T) {
	assert.Empty(t, Speedups(nil, nil))
	assert.Empty(t, Speedups(seqTable(results.Row{Dataset: "d1", TotalTimeSec: 1}), nil))
}

func TestBaselinesLastRowWins(t *testing.T) {
	seq := seqTable(
		results.Row{Dataset: "d1", TotalTimeSec: 10},
		results.Row{Dataset: "d1", TotalTimeSec: 8},
	)

	assert.InDelta(t, 8.0, Baselines(seq)["d1"].TotalTimeSec, 1e-12)
}

func TestBestRowsFirstMinimumWins(t *testing.T) {
	omp := parTable(results.OpenMP,
		results.Row{Dataset: "d1", Workers: 2, TotalTimeSec: 3, NodesExplored: 1},
		results.Row{Dataset: "d1", Workers: 4, TotalTimeSec: 2, NodesExplored: 2},
		results.Row{Dataset: "d1", Workers: 8, TotalTimeSec: 2, NodesExplored: 3},
	)

	best := BestRows(omp)["d1"]
	assert.Equal(t, 4, best.Workers)
	assert.InDelta(t, 2.0, best.NodesExplored, 1e-12)
}

func TestBestConfigs(t *testing.T) {
	set := results.Set{
		Sequential: seqTable(
			results.Row{Dataset: "d1", TotalTimeSec: 10, NodesExplored: 1000},
			results.Row{Dataset: "d2", TotalTimeSec: 20, NodesExplored: 2000},
		),
		Parallel: map[results.Implementation]*results.Table{
			results.OpenMP: parTable(results.OpenMP,
				results.Row{Dataset: "d1", Workers: 2, TotalTimeSec: 4, NodesExplored: 900},
				results.Row{Dataset: "d1", Workers: 4, TotalTimeSec: 2.5, NodesExplored: 1100},
				results.Row{Dataset: "orphan", Workers: 4, TotalTimeSec: 1},
			),
			results.OpenMPI: parTable(results.OpenMPI,
				results.Row{Dataset: "d2", Workers: 8, TotalTimeSec: 5, NodesExplored: 2500},
			),
		},
	}

	summary := BestConfigs(set)
	assert.Equal(t, []string{"d1", "d2"}, summary.Datasets())

	seq, ok := summary.Get("d1", results.Sequential)
	require.True(t, ok)
	assert.InDelta(t, 10.0, seq.TimeSec, 1e-12)
	assert.InDelta(t, 1000.0, seq.Nodes, 1e-12)

	omp, ok := summary.Get("d1", results.OpenMP)
	require.True(t, ok)
	assert.Equal(t, 4, omp.Workers)
	assert.InDelta(t, 2.5, omp.TimeSec, 1e-12)
	assert.InDelta(t, 1100.0, omp.Nodes, 1e-12)

	_, ok = summary.Get("d1", results.OpenMPI)
	assert.False(t, ok)

	mpi, ok := summary.Get("d2", results.OpenMPI)
	require.True(t, ok)
	assert.Equal(t, 8, mpi.Workers)

	_, ok = summary["orphan"]
	assert.False(t, ok, "datasets without a baseline must not be summarized")
}

func TestBestConfigsNoOptionalSources(t *testing.T) {
	set := results.Set{
		Sequential: seqTable(results.Row{Dataset: "d1", TotalTimeSec: 10}),
	}

	summary := BestConfigs(set)
	require.Len(t, summary, 1)
	assert.Len(t, summary["d1"], 1)
}

func TestPointEfficiency(t *testing.T) {
	assert.InDelta(t, 0.5, Point{Workers: 4, Speedup: 2}.Efficiency(), 1e-12)
	assert.Zero(t, Point{Workers: 0, Speedup: 2}.Efficiency())
}

func rowGen(impl results.Implementation) *rapid.Generator[results.Row] {
	return rapid.Custom(func(t *rapid.T) results.Row {
		return results.Row{
			Dataset:        rapid.SampledFrom([]string{"d1", "d2", "d3", "d4"}).Draw(t, "dataset"),
			Implementation: impl,
			Workers:        rapid.IntRange(1, 64).Draw(t, "workers"),
			TotalTimeSec:   rapid.Float64Range(0, 100).Draw(t, "time"),
			NodesExplored:  rapid.Float64Range(0, 1e7).Draw(t, "nodes"),
		}
	})
}

func TestBestRowsMatchesFullScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.SliceOfN(rowGen(results.OpenMP), 0, 50).Draw(t, "rows")
		best := BestRows(&results.Table{Rows: rows})

		minTime := make(map[string]float64)
		firstIdx := make(map[string]int)

		for i, r := range rows {
			m, ok := minTime[r.Dataset]
			if !ok || r.TotalTimeSec < m {
				minTime[r.Dataset] = r.TotalTimeSec
				firstIdx[r.Dataset] = i
			}
		}

		require.Len(t, best, len(minTime))

		for ds, m := range minTime {
			require.Equal(t, m, best[ds].TotalTimeSec)
			require.Equal(t, rows[firstIdx[ds]], best[ds])

			for _, r := range rows {
				if r.Dataset == ds {
					require.LessOrEqual(t, best[ds].TotalTimeSec, r.TotalTimeSec)
				}
			}
		}
	})
}

func TestSpeedupsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seqRows := rapid.SliceOfN(rowGen(results.Sequential), 0, 4).Draw(t, "seq")
		parRows := rapid.SliceOfN(rowGen(results.OpenMP), 0, 40).Draw(t, "par")

		seq := &results.Table{Rows: seqRows}
		base := Baselines(seq)
		got := Speedups(seq, &results.Table{Rows: parRows})

		total := 0

		for ds, points := range got {
			_, ok := base[ds]
			require.True(t, ok, "dataset %s has no baseline", ds)

			for i, p := range points {
				if i > 0 {
					require.LessOrEqual(t, points[i-1].Workers, p.Workers)
				}

				require.False(t, math.IsNaN(p.Speedup))
				require.GreaterOrEqual(t, p.Speedup, 0.0)
			}

			total += len(points)
		}

		want := 0
		for _, r := range parRows {
			if _, ok := base[r.Dataset]; ok {
				want++
			}
		}

		require.Equal(t, want, total)
	})
}
