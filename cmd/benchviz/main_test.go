package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: level,
	}))

	var out bytes.Buffer

	root := newRootCmd(logger, level)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestSampleThenPlot(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "sample", "--root", root, "--seed", "7")
	require.NoError(t, err)

	for _, name := range []string{
		"sequential_benchmarks.csv",
		"openmp_benchmarks.csv",
		"openmpi_benchmarks.csv",
	} {
		assert.FileExists(t, filepath.Join(root, "results", name))
	}

	_, err = execute(t, "plot", "--root", root, "--dpi", "72")
	require.NoError(t, err)

	for _, name := range []string{
		"speedup_by_impl.png",
		"time_by_impl.png",
		"nodes_by_impl.png",
	} {
		assert.FileExists(t, filepath.Join(root, "writeup", "images", name))
	}
}

func TestPlotWithoutSequentialResults(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "plot", "--root", root)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "writeup", "images"))
	assert.True(t, os.IsNotExist(err), "no output dir without sequential data")
}

func TestPlotSequentialOnly(t *testing.T) {
	root := t.TempDir()
	results := filepath.Join(root, "results")
	require.NoError(t, os.MkdirAll(results, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(results, "sequential_benchmarks.csv"),
		[]byte("dataset,total_time_sec,nodes_explored\nd1.txt,10,100\n"),
		0o644,
	))

	_, err := execute(t, "plot", "--root", root, "--format", "svg")
	require.NoError(t, err)

	images := filepath.Join(root, "writeup", "images")
	assert.FileExists(t, filepath.Join(images, "speedup_by_impl.svg"))
	assert.NoFileExists(t, filepath.Join(images, "time_by_impl.svg"))
	assert.NoFileExists(t, filepath.Join(images, "nodes_by_impl.svg"))
}

func TestPlotMalformedResults(t *testing.T) {
	root := t.TempDir()
	results := filepath.Join(root, "results")
	require.NoError(t, os.MkdirAll(results, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(results, "sequential_benchmarks.csv"),
		[]byte("dataset,total_time_sec,nodes_explored\nd1.txt,slow,100\n"),
		0o644,
	))

	_, err := execute(t, "plot", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequential_benchmarks.csv:2")
}

func TestSummaryFormats(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "sample", "--root", root)
	require.NoError(t, err)

	tests := []struct {
		output string
		want   string
	}{
		{"markdown", "## Benchmark Results"},
		{"json", `"datasets"`},
		{"yaml", "datasets:"},
		{"table", "OpenMPI"},
		{"html", "<html"},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			out, err := execute(t, "summary", "--root", root, "-o", tt.output)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}

	_, err = execute(t, "summary", "--root", root, "-o", "csv")
	assert.Error(t, err)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "figures")

	t.Setenv("BENCHVIZ_OUTPUT_DIR", out)
	t.Setenv("BENCHVIZ_DPI", "72")

	_, err := execute(t, "sample", "--root", root)
	require.NoError(t, err)

	_, err = execute(t, "plot", "--root", root)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "speedup_by_impl.png"))
}

func TestConfigFile(t *testing.T) {
	root := t.TempDir()
	cfgPath := filepath.Join(root, "benchviz.yaml")

	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"results-dir: data\noutput-dir: charts\nformat: svg\n",
	), 0o644))

	_, err := execute(t, "sample", "--root", root, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "data", "sequential_benchmarks.csv"))

	_, err = execute(t, "plot", "--root", root, "--config", cfgPath)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "charts", "speedup_by_impl.svg"))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "plot", "--root", t.TempDir(), "--log-level", "loud")
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("proj", "results"), resolvePath("proj", "results"))
	assert.Equal(t, "/abs/results", resolvePath("proj", "/abs/results"))
	assert.Equal(t, "results", resolvePath("", "results"))
}
