package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/weiihann/benchviz/chart"
	"github.com/weiihann/benchviz/derive"
)

// GenerateHTML writes an interactive page with the total time and nodes
// explored summary charts.
func GenerateHTML(w io.Writer, a *derive.Analysis) error {
	if a.Empty() {
		return fmt.Errorf("no results to report")
	}

	page := components.NewPage()
	page.AddCharts(
		summaryBar(a, "Total time for best configuration per implementation",
			"s", func(b derive.Best) float64 { return b.TimeSec }),
		summaryBar(a, "Nodes explored for best configuration per implementation",
			"millions", func(b derive.Best) float64 { return b.Nodes / 1e6 }),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return nil
}

func summaryBar(
	a *derive.Analysis,
	title, unit string,
	value func(derive.Best) float64,
) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: unit,
		}),
		charts.WithLegendOpts(opts.Legend{
			Top: "8%",
		}),
	)

	labels := make([]string, len(a.Datasets))
	for i, ds := range a.Datasets {
		labels[i] = chart.PrettifyName(ds)
	}

	bar.SetXAxis(labels)

	for _, impl := range implementations(a) {
		data := make([]opts.BarData, len(a.Datasets))
		for i, ds := range a.Datasets {
			var v float64
			if b, ok := a.Best.Get(ds, impl); ok {
				v = value(b)
			}

			data[i] = opts.BarData{Value: v}
		}

		bar.AddSeries(chart.SummaryLabel(impl), data)
	}

	return bar
}
