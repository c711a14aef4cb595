// internal/render/lines.go
package render

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func (r *Renderer) newPlot(title, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Day"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	return p
}

func addLine(p *plot.Plot, values []float64, style func(*plotter.Line)) (*plotter.Line, error) {
	pts := points(values)
	if len(pts) == 0 {
		return nil, nil
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	style(line)
	p.Add(line)
	return line, nil
}

// Ensemble draws every replica trace, the ensemble mean and the reference series.
func (r *Renderer) Ensemble(in Input) (string, error) {
	p := r.newPlot(in.Location.Title(), in.YLabel)

	for _, trace := range in.Traces.Values {
		if _, err := addLine(p, trace, func(l *plotter.Line) {
			l.LineStyle.Color = colorTrace
			l.LineStyle.Width = vg.Points(1)
		}); err != nil {
			return "", fmt.Errorf("replica trace for %s: %w", in.Location.Title(), err)
		}
	}

	mean, err := addLine(p, in.Summary.Mean, func(l *plotter.Line) {
		l.LineStyle.Color = colorMean
		l.LineStyle.Width = vg.Points(2)
	})
	if err != nil {
		return "", fmt.Errorf("mean trace for %s: %w", in.Location.Title(), err)
	}
	if mean != nil {
		p.Legend.Add("ensemble mean", mean)
	}

	if err := addReference(p, in); err != nil {
		return "", err
	}

	path := r.path(in.Location.FileStem(), "_Ensemble.png")
	if err := p.Save(r.opts.width(), r.opts.height(), path); err != nil {
		return "", fmt.Errorf("unable to save %s: %w", path, err)
	}
	return path, nil
}

// Band draws the ensemble mean with a filled mean ± 1 std envelope.
func (r *Renderer) Band(in Input) (string, error) {
	p := r.newPlot(in.Location.Title(), in.YLabel)

	envelope := bandPolygon(in.Summary.Lower, in.Summary.Upper)
	if len(envelope) > 0 {
		poly, err := plotter.NewPolygon(envelope)
		if err != nil {
			return "", fmt.Errorf("spread band for %s: %w", in.Location.Title(), err)
		}
		poly.Color = colorBand
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add("mean ± 1 std", poly)
	}

	mean, err := addLine(p, in.Summary.Mean, func(l *plotter.Line) {
		l.LineStyle.Color = colorMean
		l.LineStyle.Width = vg.Points(2)
	})
	if err != nil {
		return "", fmt.Errorf("mean trace for %s: %w", in.Location.Title(), err)
	}
	if mean != nil {
		p.Legend.Add("ensemble mean", mean)
	}

	if err := addReference(p, in); err != nil {
		return "", err
	}

	path := r.path(in.Location.FileStem(), "_std.png")
	if err := p.Save(r.opts.width(), r.opts.height(), path); err != nil {
		return "", fmt.Errorf("unable to save %s: %w", path, err)
	}
	return path, nil
}

func addReference(p *plot.Plot, in Input) error {
	if !in.Summary.HasReference {
		return nil
	}
	ref, err := addLine(p, in.Summary.Reference, func(l *plotter.Line) {
		l.LineStyle.Color = colorReference
		l.LineStyle.Width = vg.Points(1.5)
	})
	if err != nil {
		return fmt.Errorf("reference trace for %s: %w", in.Location.Title(), err)
	}
	if ref != nil {
		p.Legend.Add("reference data", ref)
	}
	return nil
}

// bandPolygon walks the upper bound forwards and the lower bound backwards.
func bandPolygon(lower, upper []float64) plotter.XYs {
	n := len(lower)
	if len(upper) < n {
		n = len(upper)
	}
	var top, bottom plotter.XYs
	for i := 0; i < n; i++ {
		if math.IsNaN(lower[i]) || math.IsNaN(upper[i]) || math.IsInf(lower[i], 0) || math.IsInf(upper[i], 0) {
			continue
		}
		top = append(top, plotter.XY{X: float64(i), Y: upper[i]})
		bottom = append(bottom, plotter.XY{X: float64(i), Y: lower[i]})
	}
	if len(top) < 2 {
		return nil
	}
	out := make(plotter.XYs, 0, 2*len(top))
	out = append(out, top...)
	for i := len(bottom) - 1; i >= 0; i-- {
		out = append(out, bottom[i])
	}
	return out
}
