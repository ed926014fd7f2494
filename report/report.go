// Package report formats derived benchmark results into comparison tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/weiihann/benchviz/derive"
	"github.com/weiihann/benchviz/results"
)

// Generate writes a markdown comparison table of the best configuration of
// every implementation per dataset.
func Generate(w io.Writer, a *derive.Analysis) error {
	if a.Empty() {
		return fmt.Errorf("no results to report")
	}

	impls := implementations(a)

	// Header.
	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)

	if !a.HasParallel() {
		fmt.Fprintln(w, "Parallel results: **none loaded**")
		fmt.Fprintln(w)
	}

	// Best configuration table.
	header := []string{"Dataset"}
	for _, impl := range impls {
		header = append(header, impl.Label())
	}

	fmt.Fprintln(w, "| "+strings.Join(header, " | ")+" |")
	fmt.Fprintln(w, separator(len(header)))

	for _, row := range bestRows(a, impls) {
		fmt.Fprintln(w, "| "+strings.Join(row, " | ")+" |")
	}

	if !a.HasParallel() {
		return nil
	}

	fmt.Fprintln(w)

	// Speedup curves.
	fmt.Fprintln(w, "| Dataset | Implementation | Workers | Speedup | Efficiency |")
	fmt.Fprintln(w, separator(5))

	for _, ds := range a.Datasets {
		for _, impl := range a.Implementations {
			for _, p := range a.Speedups[impl][ds] {
				fmt.Fprintf(w, "| %s | %s | %d | %.2fx | %.0f%% |\n",
					ds,
					impl.Label(),
					p.Workers,
					p.Speedup,
					p.Efficiency()*100,
				)
			}
		}
	}

	return nil
}

// GenerateJSON writes the analysis as JSON to w.
func GenerateJSON(w io.Writer, a *derive.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(a)
}

// GenerateYAML writes the analysis as YAML to w.
func GenerateYAML(w io.Writer, a *derive.Analysis) error {
	out, err := yaml.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	_, err = w.Write(out)

	return err
}

func implementations(a *derive.Analysis) []results.Implementation {
	return append([]results.Implementation{results.Sequential}, a.Implementations...)
}

// bestRows returns one formatted row per dataset: the dataset followed by a
// cell per implementation.
func bestRows(a *derive.Analysis, impls []results.Implementation) [][]string {
	rows := make([][]string, 0, len(a.Datasets))

	for _, ds := range a.Datasets {
		row := []string{ds}

		for _, impl := range impls {
			row = append(row, bestCell(a, ds, impl))
		}

		rows = append(rows, row)
	}

	return rows
}

func bestCell(a *derive.Analysis, ds string, impl results.Implementation) string {
	b, ok := a.Best.Get(ds, impl)
	if !ok {
		return "-"
	}

	cell := fmt.Sprintf("%s, %s nodes",
		formatSeconds(b.TimeSec), formatCount(b.Nodes))

	if impl == results.Sequential {
		return cell
	}

	speedup, _ := a.BestSpeedup(ds, impl)

	return fmt.Sprintf("%s @ %d (%.2fx)", cell, b.Workers, speedup)
}

func separator(cols int) string {
	return "|" + strings.Repeat("---|", cols)
}

func formatSeconds(sec float64) string {
	if sec < 1 {
		return fmt.Sprintf("%.0fms", sec*1000)
	}

	return fmt.Sprintf("%.2fs", sec)
}

func formatCount(n float64) string {
	if n == 0 {
		return "0"
	}

	units := []string{"", "K", "M", "B", "T"}
	size := n
	unit := 0

	for size >= 1000 && unit < len(units)-1 {
		size /= 1000
		unit++
	}

	formatted := fmt.Sprintf("%.1f", size)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")

	return formatted + units[unit]
}
