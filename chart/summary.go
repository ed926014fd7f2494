package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/weiihann/benchviz/derive"
	"github.com/weiihann/benchviz/results"
)

const (
	summaryWidth    = 8 * vg.Inch
	summaryHeight   = 3.5 * vg.Inch
	summaryBarWidth = vg.Length(14)
)

// summaryMetric selects the value plotted for one best configuration.
type summaryMetric struct {
	title  string
	ylabel string
	value  func(derive.Best) float64
}

var (
	timeMetric = summaryMetric{
		title:  "Total time for best configuration per implementation",
		ylabel: "Total time over 5 runs (s)",
		value:  func(b derive.Best) float64 { return b.TimeSec },
	}
	nodesMetric = summaryMetric{
		title:  "Nodes explored for best configuration per implementation",
		ylabel: "Nodes explored (millions, 5 runs)",
		value:  func(b derive.Best) float64 { return b.Nodes / 1e6 },
	}
)

// SummaryLabel returns the legend label of impl in the summary charts.
func SummaryLabel(impl results.Implementation) string {
	if impl == results.Sequential {
		return "Seq (1 thread)"
	}

	return impl.Label() + " (best)"
}

// summaryImplementations lists sequential followed by every loaded
// parallel implementation.
func summaryImplementations(a *derive.Analysis) []results.Implementation {
	return append([]results.Implementation{results.Sequential}, a.Implementations...)
}

// TimeChart writes the best-configuration total time comparison to path.
func TimeChart(o Options, a *derive.Analysis, path string) error {
	return summaryChart(o, a, path, timeMetric)
}

// NodesChart writes the best-configuration nodes-explored comparison to
// path. Node counts are plotted in millions.
func NodesChart(o Options, a *derive.Analysis, path string) error {
	return summaryChart(o, a, path, nodesMetric)
}

func summaryChart(o Options, a *derive.Analysis, path string, m summaryMetric) error {
	o = o.withDefaults()

	if a.Empty() {
		return ErrNoData
	}

	p, err := summaryPlot(a, m)
	if err != nil {
		return err
	}

	return savePlot(o, path, p, summaryWidth, summaryHeight)
}

func summaryPlot(a *derive.Analysis, m summaryMetric) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = m.title
	p.Y.Label.Text = m.ylabel
	p.Y.Min = 0
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Width = vg.Points(0.5)
	p.Add(grid)

	impls := summaryImplementations(a)

	for k, impl := range impls {
		values := make(plotter.Values, len(a.Datasets))
		for i, ds := range a.Datasets {
			if b, ok := a.Best.Get(ds, impl); ok {
				values[i] = m.value(b)
			}
		}

		bars, err := plotter.NewBarChart(values, summaryBarWidth)
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", impl, err)
		}

		bars.LineStyle.Width = vg.Length(0)
		bars.Color = implColor(impl)
		bars.Offset = groupOffset(k, len(impls), summaryBarWidth)

		p.Add(bars)
		p.Legend.Add(SummaryLabel(impl), bars)
	}

	labels := make([]string, len(a.Datasets))
	for i, ds := range a.Datasets {
		labels[i] = PrettifyName(ds)
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 12
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YTop

	return p, nil
}
