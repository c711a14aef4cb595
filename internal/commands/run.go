// internal/commands/run.go
package fumeplot

import (
	"fmt"
	"io"

	"github.com/mwiater/fumeplot/internal/appconfig"
	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/mwiater/fumeplot/internal/logging"
	"github.com/mwiater/fumeplot/internal/render"
	"github.com/mwiater/fumeplot/internal/report"
)

// runEnsemble discovers the replicas for mode, renders every location and
// writes the summary, the HTML index and the terminal table.
func runEnsemble(cfg appconfig.Config, mode header.Mode, out io.Writer) (report.Report, error) {
	inputDir := cfg.InputDir(string(mode))
	outputDir := cfg.OutputDir(string(mode))

	dirs, err := ensemble.Discover(inputDir)
	if err != nil {
		return report.Report{}, err
	}
	schema, err := header.Resolve(dirs, mode)
	if err != nil {
		return report.Report{}, err
	}

	width, height := cfg.Size()
	renderer, err := render.New(render.Options{
		OutputDir:    outputDir,
		WidthInches:  width,
		HeightInches: height,
		Bins:         cfg.HistogramBins(),
		FrameRate:    cfg.FramesPerSecond(),
		Animate:      cfg.AnimationEnabled(),
	})
	if err != nil {
		return report.Report{}, err
	}

	ens := ensemble.New(dirs, ensemble.Options{Mode: string(mode), SkipMismatched: cfg.SkipMismatched})
	results := make([]report.LocationResult, 0, schema.Len())
	for _, loc := range schema.Locations() {
		res, err := runLocation(ens, renderer, schema, loc)
		if err != nil {
			return report.Report{}, fmt.Errorf("%s: %w", loc.Title(), err)
		}
		results = append(results, res)
	}

	rep := report.Build(schema, inputDir, renderer.OutputDir(), len(dirs), results)
	summaryPath := cfg.SummaryPath(string(mode))
	if err := report.Write(summaryPath, cfg.Format(), rep); err != nil {
		return rep, err
	}
	htmlPath := cfg.HTMLPath(string(mode))
	if err := report.WriteHTML(htmlPath, rep); err != nil {
		return rep, err
	}
	logging.LogEvent("[REPORT] summary=%s html=%s", summaryPath, htmlPath)

	report.PrintTable(out, rep)
	return rep, nil
}

func runLocation(ens *ensemble.Ensemble, renderer *render.Renderer, schema header.Schema, loc header.Location) (report.LocationResult, error) {
	traces, err := ens.Series(loc.SimIndex)
	if err != nil {
		return report.LocationResult{}, err
	}
	ref, err := ens.ReferenceFor(traces, loc.DataIndex)
	if err != nil {
		return report.LocationResult{}, err
	}
	summary, err := ensemble.Aggregate(traces, ref)
	if err != nil {
		return report.LocationResult{}, err
	}
	artifacts, err := renderer.Location(render.Input{
		Location: loc,
		YLabel:   schema.YLabel,
		Traces:   traces,
		Summary:  summary,
	})
	if err != nil {
		return report.LocationResult{}, err
	}
	return report.LocationResult{Location: loc, Traces: traces, Summary: summary, Artifacts: artifacts}, nil
}
