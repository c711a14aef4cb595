// internal/render/render.go
// Package render draws ensemble plots and animations for one location at a time.
package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/mwiater/fumeplot/internal/logging"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	defaultWidthInches  = 8.0
	defaultHeightInches = 5.0
	defaultBins         = 10
	defaultFrameRate    = 5
	defaultJPEGQuality  = 90
)

var (
	colorTrace     = color.RGBA{A: 51}
	colorMean      = color.RGBA{R: 128, A: 255}
	colorBand      = color.RGBA{R: 128, A: 77}
	colorReference = color.RGBA{B: 255, A: 255}
	colorHist      = color.RGBA{G: 190, B: 190, A: 166}
)

// Options configure image size, histogram binning and animation output.
type Options struct {
	OutputDir    string
	WidthInches  float64
	HeightInches float64
	Bins         int
	FrameRate    int
	JPEGQuality  int
	Animate      bool
}

func (o Options) withDefaults() Options {
	if o.WidthInches <= 0 {
		o.WidthInches = defaultWidthInches
	}
	if o.HeightInches <= 0 {
		o.HeightInches = defaultHeightInches
	}
	if o.Bins <= 0 {
		o.Bins = defaultBins
	}
	if o.FrameRate <= 0 {
		o.FrameRate = defaultFrameRate
	}
	if o.JPEGQuality <= 0 || o.JPEGQuality > 100 {
		o.JPEGQuality = defaultJPEGQuality
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}
	return o
}

func (o Options) width() vg.Length  { return vg.Length(o.WidthInches) * vg.Inch }
func (o Options) height() vg.Length { return vg.Length(o.HeightInches) * vg.Inch }

// Input is everything the renderer needs for a single location.
type Input struct {
	Location header.Location
	YLabel   string
	Traces   ensemble.Traces
	Summary  ensemble.Summary
}

// Artifacts lists the files written for a location. Empty fields were skipped.
type Artifacts struct {
	Ensemble    string `json:"ensemble,omitempty" yaml:"ensemble,omitempty"`
	Std         string `json:"std,omitempty" yaml:"std,omitempty"`
	Differences string `json:"differences,omitempty" yaml:"differences,omitempty"`
	Histogram   string `json:"histogram,omitempty" yaml:"histogram,omitempty"`
}

// Files returns the non-empty artifact paths in render order.
func (a Artifacts) Files() []string {
	var out []string
	for _, p := range []string{a.Ensemble, a.Std, a.Differences, a.Histogram} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Renderer writes plots into a single output folder.
type Renderer struct {
	opts Options
}

// New creates the output folder and returns a Renderer writing into it.
func New(opts Options) (*Renderer, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create output folder %s: %w", opts.OutputDir, err)
	}
	return &Renderer{opts: opts}, nil
}

// OutputDir is the folder artifacts are written to.
func (r *Renderer) OutputDir() string {
	return r.opts.OutputDir
}

// Location renders the ensemble overlay, the spread band, the residual plot
// when reference data exists and, if enabled, the histogram animation.
func (r *Renderer) Location(in Input) (Artifacts, error) {
	var art Artifacts
	var err error

	if art.Ensemble, err = r.Ensemble(in); err != nil {
		return art, err
	}
	if art.Std, err = r.Band(in); err != nil {
		return art, err
	}
	if in.Summary.HasReference {
		if art.Differences, err = r.Differences(in); err != nil {
			return art, err
		}
	}
	if r.opts.Animate {
		if art.Histogram, err = r.Histogram(in); err != nil {
			return art, err
		}
	}
	logging.LogEvent("[RENDER] %s: %d files", in.Location.Title(), len(art.Files()))
	return art, nil
}

func (r *Renderer) path(stem, suffix string) string {
	return filepath.Join(r.opts.OutputDir, stem+suffix)
}

// points converts a series to plot points, dropping NaN and Inf values.
func points(values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i), Y: v})
	}
	return pts
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}
