// Package chart renders benchmark speedup and summary figures with
// gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/weiihann/benchviz/results"
)

// Output file names, without extension.
const (
	SpeedupFile = "speedup_by_impl"
	TimeFile    = "time_by_impl"
	NodesFile   = "nodes_by_impl"
)

// DefaultDPI is the raster resolution used when Options.DPI is unset.
const DefaultDPI = 200

// ErrNoData is returned when there is no sequential baseline to plot.
var ErrNoData = errors.New("no sequential benchmark data")

// Options controls where and how figures are written.
type Options struct {
	OutputDir string
	// Format is the file extension: png, jpg, tiff, svg, pdf or eps.
	Format string
	// DPI applies to raster formats only.
	DPI int
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = "png"
	}

	o.Format = strings.ToLower(strings.TrimPrefix(o.Format, "."))

	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}

	return o
}

// Validate reports whether the output format is supported.
func (o Options) Validate() error {
	switch o.withDefaults().Format {
	case "png", "jpg", "jpeg", "tif", "tiff", "svg", "pdf", "eps":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", o.Format)
	}
}

// Path returns the output path of the named figure.
func (o Options) Path(name string) string {
	o = o.withDefaults()

	return filepath.Join(o.OutputDir, name+"."+o.Format)
}

func newCanvas(o Options, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch o.Format {
	case "png":
		return vgimg.PngCanvas{Canvas: rasterCanvas(o, w, h)}, nil
	case "jpg", "jpeg":
		return vgimg.JpegCanvas{Canvas: rasterCanvas(o, w, h)}, nil
	case "tif", "tiff":
		return vgimg.TiffCanvas{Canvas: rasterCanvas(o, w, h)}, nil
	default:
		return draw.NewFormattedCanvas(w, h, o.Format)
	}
}

func rasterCanvas(o Options, w, h vg.Length) *vgimg.Canvas {
	return vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(o.DPI))
}

// saveGrid lays plots out on a rows x cols grid and writes the figure to
// path. Nil entries leave their cell blank.
func saveGrid(
	o Options,
	path string,
	plots [][]*plot.Plot,
	tiles draw.Tiles,
	w, h vg.Length,
) error {
	c, err := newCanvas(o, w, h)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}

	dc := draw.New(c)
	canvases := plot.Align(plots, tiles, dc)

	for j := range plots {
		for i, p := range plots[j] {
			if p == nil {
				continue
			}

			p.Draw(canvases[j][i])
		}
	}

	return writeCanvas(path, c)
}

// savePlot writes a single plot to path.
func savePlot(o Options, path string, p *plot.Plot, w, h vg.Length) error {
	c, err := newCanvas(o, w, h)
	if err != nil {
		return fmt.Errorf("create canvas: %w", err)
	}

	p.Draw(draw.New(c))

	return writeCanvas(path, c)
}

func writeCanvas(path string, c vg.CanvasWriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if _, err := c.WriteTo(f); err != nil {
		f.Close()

		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

// Matplotlib "tab" palette.
var (
	tabGray   = color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff}
	tabBlue   = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	tabOrange = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}
)

func implColor(impl results.Implementation) color.Color {
	switch impl {
	case results.OpenMP:
		return tabBlue
	case results.OpenMPI:
		return tabOrange
	default:
		return tabGray
	}
}

// groupOffset returns the horizontal offset of bar k in a group of n bars
// of width w centred on the tick.
func groupOffset(k, n int, w vg.Length) vg.Length {
	return vg.Length(float64(k)-float64(n-1)/2) * w
}
