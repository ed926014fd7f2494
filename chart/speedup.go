package chart

import (
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/weiihann/benchviz/derive"
)

const (
	speedupFigWidth  = 7 * vg.Inch
	speedupRowHeight = 2.5 * vg.Inch
	speedupBarWidth  = vg.Length(10)
	referenceLabel   = "Sequential (1x)"
)

// GridSize returns the panel grid for n datasets: a single panel, a 2x2
// grid for up to four, and two columns beyond that.
func GridSize(n int) (rows, cols int) {
	switch {
	case n <= 1:
		return 1, 1
	case n <= 4:
		return 2, 2
	default:
		return (n + 1) / 2, 2
	}
}

// speedupYMax is the shared upper bound of every panel's Y axis.
func speedupYMax(a *derive.Analysis) float64 {
	return max(a.MaxSpeedup(), 1) * 1.1
}

// SpeedupGrid draws one speedup-vs-workers panel per dataset and writes the
// figure to path.
func SpeedupGrid(o Options, a *derive.Analysis, path string) error {
	o = o.withDefaults()

	if a.Empty() {
		return ErrNoData
	}

	rows, cols := GridSize(len(a.Datasets))
	yMax := speedupYMax(a)

	plots := make([][]*plot.Plot, rows)
	for j := range plots {
		plots[j] = make([]*plot.Plot, cols)
	}

	for k, ds := range a.Datasets {
		p, err := speedupPanel(a, ds, k == 0, yMax)
		if err != nil {
			return fmt.Errorf("panel %s: %w", ds, err)
		}

		plots[k/cols][k%cols] = p
	}

	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	return saveGrid(o, path, plots, tiles,
		speedupFigWidth, speedupRowHeight*vg.Length(rows))
}

func speedupPanel(
	a *derive.Analysis,
	ds string,
	first bool,
	yMax float64,
) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Speedup vs Sequential for " + ItemsLabel(ds)
	p.X.Label.Text = "Threads / Processes"
	p.Y.Label.Text = "Speedup (T_seq / T_par)"
	p.Y.Min = 0
	p.Y.Max = yMax

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Width = vg.Points(0.5)
	p.Add(grid)

	counts := a.WorkerCounts(ds)

	ref, err := referenceLine(len(counts))
	if err != nil {
		return nil, err
	}

	p.Add(ref)

	if first {
		p.Legend.Add(referenceLabel, ref)
		p.Legend.Top = true
	}

	for k, impl := range a.Implementations {
		if len(a.Speedups[impl][ds]) == 0 {
			continue
		}

		values := make(plotter.Values, len(counts))
		for i, c := range counts {
			values[i], _ = a.SpeedupAt(impl, ds, c)
		}

		bars, err := plotter.NewBarChart(values, speedupBarWidth)
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", impl, err)
		}

		bars.LineStyle.Width = vg.Length(0)
		bars.Color = implColor(impl)
		bars.Offset = groupOffset(k, len(a.Implementations), speedupBarWidth)
		p.Add(bars)

		if first {
			p.Legend.Add(impl.Label(), bars)
		}
	}

	if len(counts) > 0 {
		labels := make([]string, len(counts))
		for i, c := range counts {
			labels[i] = strconv.Itoa(c)
		}

		p.NominalX(labels...)
	}

	return p, nil
}

// referenceLine spans all n tick positions at speedup 1.
func referenceLine(n int) (*plotter.Line, error) {
	right := float64(max(n, 1)) - 0.5

	line, err := plotter.NewLine(plotter.XYs{
		{X: -0.5, Y: 1},
		{X: right, Y: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("reference line: %w", err)
	}

	line.LineStyle.Color = color.Black
	line.LineStyle.Width = vg.Points(1)
	line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	return line, nil
}
