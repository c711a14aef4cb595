// internal/report/report.go
// Package report summarizes a reporting run and exports it as JSON, YAML,
// HTML or a terminal table.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/mwiater/fumeplot/internal/render"
	"github.com/mwiater/fumeplot/internal/util"
	"gopkg.in/yaml.v3"
)

// Report is the end-of-run summary for one mode.
type Report struct {
	Mode        string           `json:"mode" yaml:"mode"`
	Source      string           `json:"source" yaml:"source"`
	InputDir    string           `json:"input_dir" yaml:"input_dir"`
	OutputDir   string           `json:"output_dir" yaml:"output_dir"`
	YLabel      string           `json:"y_label" yaml:"y_label"`
	Replicas    int              `json:"replicas" yaml:"replicas"`
	GeneratedAt time.Time        `json:"generated_at" yaml:"generated_at"`
	Locations   []LocationReport `json:"locations" yaml:"locations"`
}

// LocationReport holds the scalar statistics and artifacts for one location.
type LocationReport struct {
	Name         string           `json:"name" yaml:"name"`
	Header       string           `json:"header" yaml:"header"`
	SimIndex     int              `json:"sim_index" yaml:"sim_index"`
	DataIndex    int              `json:"data_index" yaml:"data_index"`
	Replicas     int              `json:"replicas" yaml:"replicas"`
	Steps        int              `json:"steps" yaml:"steps"`
	FinalMean    *float64         `json:"final_mean,omitempty" yaml:"final_mean,omitempty"`
	FinalStd     *float64         `json:"final_std,omitempty" yaml:"final_std,omitempty"`
	Peak         *float64         `json:"peak,omitempty" yaml:"peak,omitempty"`
	RMSE         *float64         `json:"rmse,omitempty" yaml:"rmse,omitempty"`
	MAD          *float64         `json:"mad,omitempty" yaml:"mad,omitempty"`
	HasReference bool             `json:"has_reference" yaml:"has_reference"`
	Excluded     []string         `json:"excluded,omitempty" yaml:"excluded,omitempty"`
	Artifacts    render.Artifacts `json:"artifacts" yaml:"artifacts"`
}

// LocationResult is what the run produced for a single location.
type LocationResult struct {
	Location  header.Location
	Traces    ensemble.Traces
	Summary   ensemble.Summary
	Artifacts render.Artifacts
}

// Build assembles a Report from the schema and per-location results.
func Build(schema header.Schema, inputDir, outputDir string, replicas int, results []LocationResult) Report {
	rep := Report{
		Mode:        string(schema.Mode),
		Source:      schema.Source,
		InputDir:    inputDir,
		OutputDir:   outputDir,
		YLabel:      schema.YLabel,
		Replicas:    replicas,
		GeneratedAt: time.Now().UTC(),
		Locations:   make([]LocationReport, 0, len(results)),
	}
	for _, res := range results {
		mean, std := res.Summary.Final()
		rs := res.Traces.Range(nil)
		lr := LocationReport{
			Name:         res.Location.Name,
			Header:       res.Location.Title(),
			SimIndex:     res.Location.SimIndex,
			DataIndex:    res.Location.DataIndex,
			Replicas:     res.Summary.Replicas,
			Steps:        res.Summary.Steps,
			FinalMean:    number(mean),
			FinalStd:     number(std),
			HasReference: res.Summary.HasReference,
			Artifacts:    res.Artifacts,
		}
		if rs.Count > 0 {
			lr.Peak = number(rs.Max)
		}
		if res.Summary.HasReference {
			lr.RMSE = number(res.Summary.RMSE)
			lr.MAD = number(res.Summary.MAD)
		}
		for _, err := range res.Traces.Excluded {
			lr.Excluded = append(lr.Excluded, err.Error())
		}
		rep.Locations = append(rep.Locations, lr)
	}
	return rep
}

// number drops values that JSON cannot represent.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// WriteJSON writes the report as indented JSON, creating parent directories.
func WriteJSON(path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal summary JSON: %w", err)
	}
	return writeFile(path, data)
}

// WriteYAML writes the report as YAML, creating parent directories.
func WriteYAML(path string, rep Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("unable to marshal summary YAML: %w", err)
	}
	return writeFile(path, data)
}

// Write dispatches on format ("json" or "yaml").
func Write(path, format string, rep Report) error {
	if format == "yaml" {
		return WriteYAML(path, rep)
	}
	return WriteJSON(path, rep)
}

func writeFile(path string, data []byte) error {
	if err := util.WriteFile(path, data); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	return nil
}
