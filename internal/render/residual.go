// internal/render/residual.go
package render

import (
	"fmt"
	"math"
	"os"

	"github.com/mwiater/fumeplot/internal/logging"
	"github.com/wcharczuk/go-chart/v2"
)

const chartDPI = 96

// StatsLabel formats the residual statistics shown on the differences chart.
func StatsLabel(rmse, mad float64) string {
	return fmt.Sprintf("RMSE = %.2f, ARD = %.2f", rmse, mad)
}

// Differences draws mean-minus-reference over time, labelled with RMSE and
// mean absolute deviation. It returns an empty path when there is nothing finite to plot.
func (r *Renderer) Differences(in Input) (string, error) {
	var xs, ys []float64
	for i, v := range in.Summary.Residual {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i))
		ys = append(ys, v)
	}
	if len(ys) == 0 {
		logging.LogEvent("[RENDER] %s: no finite residuals, skipping differences chart", in.Location.Title())
		return "", nil
	}

	yMin, yMax := ys[0], ys[0]
	for _, v := range ys {
		yMin = math.Min(yMin, v)
		yMax = math.Max(yMax, v)
	}
	if yMin == yMax {
		yMin--
		yMax++
	}
	xMax := math.Max(1, float64(len(in.Summary.Residual)-1))

	graph := chart.Chart{
		Title:  in.Location.Title(),
		Width:  int(r.opts.WidthInches * chartDPI),
		Height: int(r.opts.HeightInches * chartDPI),
		XAxis: chart.XAxis{
			Name:  "Day",
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Difference (sim - observed)",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    StatsLabel(in.Summary.RMSE, in.Summary.MAD),
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlack,
					StrokeWidth: 1.5,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	path := r.path(in.Location.DataFileStem(), "_Differences.png")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return "", fmt.Errorf("failed to render differences chart %s: %w", path, err)
	}
	return path, nil
}
