package report

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/weiihann/benchviz/derive"
)

// GenerateTable writes the best configuration summary as a boxed terminal
// table.
func GenerateTable(w io.Writer, a *derive.Analysis) error {
	if a.Empty() {
		return fmt.Errorf("no results to report")
	}

	impls := implementations(a)

	header := []string{"Dataset"}
	for _, impl := range impls {
		header = append(header, impl.Label())
	}

	data := pterm.TableData{header}
	data = append(data, bestRows(a, impls)...)

	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithData(data).
		Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	_, err = fmt.Fprintln(w, out)

	return err
}
