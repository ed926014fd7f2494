package results

import (
	"fmt"
	"path/filepath"
)

// Implementation identifies which benchmark binary produced a result.
type Implementation string

const (
	Sequential Implementation = "sequential"
	OpenMP     Implementation = "openmp"
	OpenMPI    Implementation = "openmpi"
)

// KnownImplementations returns the supported implementations in display
// order.
func KnownImplementations() []Implementation {
	return []Implementation{Sequential, OpenMP, OpenMPI}
}

// ParseImplementation converts a name into an Implementation.
func ParseImplementation(name string) (Implementation, error) {
	for _, impl := range KnownImplementations() {
		if string(impl) == name {
			return impl, nil
		}
	}

	return "", fmt.Errorf("unknown implementation %q", name)
}

// Required reports whether a missing CSV for impl means there is nothing
// to report.
func (i Implementation) Required() bool {
	return i == Sequential
}

// Label returns the display name of the implementation.
func (i Implementation) Label() string {
	switch i {
	case Sequential:
		return "Sequential"
	case OpenMP:
		return "OpenMP"
	case OpenMPI:
		return "OpenMPI"
	default:
		return string(i)
	}
}

// WorkerColumn returns the CSV column holding the worker count, or the
// empty string if the implementation has none.
func (i Implementation) WorkerColumn() string {
	switch i {
	case OpenMP:
		return "threads"
	case OpenMPI:
		return "processes"
	default:
		return ""
	}
}

// FileName returns the CSV file name the benchmark binary appends to.
func (i Implementation) FileName() string {
	return string(i) + "_benchmarks.csv"
}

// ResolvePath returns the expected CSV path for impl given the results
// directory.
func ResolvePath(resultsDir string, impl Implementation) string {
	return filepath.Join(resultsDir, impl.FileName())
}

// normalizesDataset reports whether the implementation writes the dataset
// as a path rather than a bare file name.
func (i Implementation) normalizesDataset() bool {
	return i == OpenMPI
}

// NormalizeDataset strips any directory from a dataset identifier.
func NormalizeDataset(name string) string {
	if name == "" {
		return ""
	}

	return filepath.Base(name)
}
