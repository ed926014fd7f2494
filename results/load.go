package results

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// ErrNotFound is returned by Load when the results file does not exist.
var ErrNotFound = errors.New("results file not found")

// Column names shared by every benchmark CSV.
const (
	ColDataset       = "dataset"
	ColIterations    = "iterations"
	ColTotalTimeSec  = "total_time_sec"
	ColAvgTimeSec    = "avg_time_sec"
	ColNodesExplored = "nodes_explored"
	ColNodesPruned   = "nodes_pruned"
	ColMaxValue      = "max_value"
)

// Load reads the CSV at path as results for impl.
func Load(path string, impl Implementation) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parseRows(impl, path, f)
	if err != nil {
		return nil, err
	}

	return &Table{Implementation: impl, Path: path, Rows: rows}, nil
}

// LoadSet loads every known implementation from resultsDir. Missing
// optional sources are skipped. A missing sequential source yields an
// empty Sequential table rather than an error.
func LoadSet(
	ctx context.Context,
	logger *slog.Logger,
	resultsDir string,
) (Set, error) {
	set := Set{Parallel: make(map[Implementation]*Table)}

	for _, impl := range KnownImplementations() {
		path := ResolvePath(resultsDir, impl)

		table, err := Load(path, impl)
		if errors.Is(err, ErrNotFound) {
			logger.DebugContext(ctx, "results file not found",
				slog.String("implementation", string(impl)),
				slog.String("path", path),
			)

			if impl.Required() {
				set.Sequential = &Table{Implementation: impl, Path: path}
			}

			continue
		}

		if err != nil {
			return Set{}, fmt.Errorf("load %s results: %w", impl, err)
		}

		logger.DebugContext(ctx, "results loaded",
			slog.String("implementation", string(impl)),
			slog.String("path", path),
			slog.Int("rows", table.Len()),
		)

		if impl.Required() {
			set.Sequential = table
		} else {
			set.Parallel[impl] = table
		}
	}

	return set, nil
}

// header maps column names to their index in a record.
type header map[string]int

func newHeader(record []string) header {
	h := make(header, len(record))
	for i, name := range record {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := h[name]; !dup {
			h[name] = i
		}
	}

	return h
}

func (h header) require(names ...string) error {
	var missing []string

	for _, name := range names {
		if name == "" {
			continue
		}

		if _, ok := h[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing column(s): %s", strings.Join(missing, ", "))
	}

	return nil
}

// field returns the trimmed value of column name, or "" if the column is
// absent from the header or the record is short.
func (h header) field(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}

func parseRows(impl Implementation, path string, r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}

	h := newHeader(first)
	if err := h.require(
		ColDataset, ColTotalTimeSec, ColNodesExplored, impl.WorkerColumn(),
	); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows []Row

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		line, _ := cr.FieldPos(0)

		if isBlank(record) {
			continue
		}

		row, err := h.parseRow(impl, record)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (h header) parseRow(impl Implementation, record []string) (Row, error) {
	row := Row{
		Dataset:        h.field(record, ColDataset),
		Implementation: impl,
	}

	if row.Dataset == "" {
		return Row{}, fmt.Errorf("empty %s", ColDataset)
	}

	if impl.normalizesDataset() {
		row.Dataset = NormalizeDataset(row.Dataset)
	}

	var err error

	if col := impl.WorkerColumn(); col != "" {
		if row.Workers, err = toInt(h.field(record, col), col, true); err != nil {
			return Row{}, err
		}
	}

	if row.TotalTimeSec, err = toFloat(
		h.field(record, ColTotalTimeSec), ColTotalTimeSec, true,
	); err != nil {
		return Row{}, err
	}

	if row.NodesExplored, err = toFloat(
		h.field(record, ColNodesExplored), ColNodesExplored, true,
	); err != nil {
		return Row{}, err
	}

	if row.Iterations, err = toInt(
		h.field(record, ColIterations), ColIterations, false,
	); err != nil {
		return Row{}, err
	}

	if row.AvgTimeSec, err = toFloat(
		h.field(record, ColAvgTimeSec), ColAvgTimeSec, false,
	); err != nil {
		return Row{}, err
	}

	if row.NodesPruned, err = toFloat(
		h.field(record, ColNodesPruned), ColNodesPruned, false,
	); err != nil {
		return Row{}, err
	}

	if row.MaxValue, err = toFloat(
		h.field(record, ColMaxValue), ColMaxValue, false,
	); err != nil {
		return Row{}, err
	}

	return row, nil
}

func toFloat(value, column string, required bool) (float64, error) {
	if value == "" {
		if required {
			return 0, fmt.Errorf("empty %s", column)
		}

		return 0, nil
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", column, value, err)
	}

	return f, nil
}

func toInt(value, column string, required bool) (int, error) {
	if value == "" {
		if required {
			return 0, fmt.Errorf("empty %s", column)
		}

		return 0, nil
	}

	n, err := cast.ToIntE(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", column, value, err)
	}

	return n, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
