// internal/render/histogram.go
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/icza/mjpeg"
	"github.com/mwiater/fumeplot/internal/ensemble"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const minHistogramYMax = 10

// histogramState is everything a single animation frame needs. It is built
// once per location and passed to every frame call.
type histogramState struct {
	title  string
	xLabel string
	traces ensemble.Traces
	ref    []float64
	bins   int
	xMax   float64
	yMax   float64
	width  vg.Length
	height vg.Length
}

func newHistogramState(in Input, opts Options) *histogramState {
	rs := in.Traces.Range(in.Summary.Reference)
	xMax := 1.1 * rs.Max
	if rs.Count == 0 || xMax <= 0 {
		xMax = 1
	}
	yMax := math.Max(minHistogramYMax, float64(in.Traces.Size()))
	return &histogramState{
		title:  in.Location.Title(),
		xLabel: in.YLabel,
		traces: in.Traces,
		ref:    in.Summary.Reference,
		bins:   opts.Bins,
		xMax:   xMax,
		yMax:   yMax,
		width:  opts.width(),
		height: opts.height(),
	}
}

// plotFrame builds the histogram plot for step.
func plotFrame(s *histogramState, step int) (*plot.Plot, error) {
	frame := s.traces.Frame(step, s.ref)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - Day %d", s.title, frame.Step)
	p.X.Label.Text = s.xLabel
	p.Y.Label.Text = "Occurrences"
	p.X.Min, p.X.Max = 0, s.xMax
	p.Y.Min, p.Y.Max = 0, s.yMax
	p.Legend.Top = true

	values := finite(frame.Values)
	if len(values) > 0 {
		hist, err := plotter.NewHist(plotter.Values(values), s.bins)
		if err != nil {
			return nil, fmt.Errorf("histogram for %s day %d: %w", s.title, frame.Step, err)
		}
		hist.FillColor = colorHist
		hist.LineStyle.Width = vg.Points(0.5)
		p.Add(hist)
		p.Legend.Add("ensemble data", hist)
	}

	if frame.HasReference && !math.IsNaN(frame.Reference) && !math.IsInf(frame.Reference, 0) {
		marker, err := plotter.NewLine(plotter.XYs{{X: frame.Reference, Y: 0}, {X: frame.Reference, Y: s.yMax}})
		if err != nil {
			return nil, fmt.Errorf("reference marker for %s day %d: %w", s.title, frame.Step, err)
		}
		marker.LineStyle.Width = vg.Points(1)
		marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add("reference data", marker)
	}
	return p, nil
}

// renderFrame rasterizes the plot for step.
func renderFrame(s *histogramState, step int) (image.Image, error) {
	p, err := plotFrame(s, step)
	if err != nil {
		return nil, err
	}
	canvas := vgimg.New(s.width, s.height)
	p.Draw(draw.New(canvas))
	return canvas.Image(), nil
}

// Histogram writes an MJPEG AVI with one histogram frame per day.
func (r *Renderer) Histogram(in Input) (string, error) {
	steps := in.Traces.Len()
	if steps == 0 {
		return "", nil
	}
	state := newHistogramState(in, r.opts)
	path := r.path(in.Location.FileStem(), "_Histogram.avi")

	var (
		writer mjpeg.AviWriter
		buf    bytes.Buffer
	)
	jpegOptions := &jpeg.Options{Quality: r.opts.JPEGQuality}

	for step := 0; step < steps; step++ {
		img, err := renderFrame(state, step)
		if err != nil {
			if writer != nil {
				_ = writer.Close()
			}
			return "", err
		}
		if writer == nil {
			bounds := img.Bounds()
			writer, err = mjpeg.New(path, int32(bounds.Dx()), int32(bounds.Dy()), int32(r.opts.FrameRate))
			if err != nil {
				return "", fmt.Errorf("failed to create MJPEG writer %s: %w", path, err)
			}
		}

		if err := jpeg.Encode(&buf, img, jpegOptions); err != nil {
			_ = writer.Close()
			return "", fmt.Errorf("failed to encode frame %d: %w", step, err)
		}
		if err := writer.AddFrame(buf.Bytes()); err != nil {
			_ = writer.Close()
			return "", fmt.Errorf("failed to add frame %d: %w", step, err)
		}
		buf.Reset()
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return path, nil
}
