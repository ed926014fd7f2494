package chart

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/weiihann/benchviz/derive"
)

// Renderer writes every figure for an analysis into one output directory.
type Renderer struct {
	opts   Options
	logger *slog.Logger
}

// NewRenderer creates a Renderer writing into opts.OutputDir.
func NewRenderer(opts Options, logger *slog.Logger) (*Renderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Renderer{
		opts:   opts.withDefaults(),
		logger: logger,
	}, nil
}

// Render writes the speedup grid and, when at least one parallel
// implementation was loaded, the time and nodes summary charts. It returns
// the paths written.
func (r *Renderer) Render(ctx context.Context, a *derive.Analysis) ([]string, error) {
	if a.Empty() {
		return nil, ErrNoData
	}

	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	speedupPath := r.opts.Path(SpeedupFile)
	if err := SpeedupGrid(r.opts, a, speedupPath); err != nil {
		return written, fmt.Errorf("speedup grid: %w", err)
	}

	written = append(written, r.wrote(ctx, speedupPath))

	if !a.HasParallel() {
		r.logger.InfoContext(ctx, "no parallel results; skipping summary charts")

		return written, nil
	}

	timePath := r.opts.Path(TimeFile)
	if err := TimeChart(r.opts, a, timePath); err != nil {
		return written, fmt.Errorf("time chart: %w", err)
	}

	written = append(written, r.wrote(ctx, timePath))

	nodesPath := r.opts.Path(NodesFile)
	if err := NodesChart(r.opts, a, nodesPath); err != nil {
		return written, fmt.Errorf("nodes chart: %w", err)
	}

	written = append(written, r.wrote(ctx, nodesPath))

	return written, nil
}

func (r *Renderer) wrote(ctx context.Context, path string) string {
	r.logger.InfoContext(ctx, "wrote plot", slog.String("path", path))

	return path
}
