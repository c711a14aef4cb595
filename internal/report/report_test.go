// internal/report/report_test.go
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/mwiater/fumeplot/internal/render"
	"gopkg.in/yaml.v3"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	schema := header.Schema{
		Mode:          header.ModeFlee,
		Headers:       []string{"Day", "Date", "Bria sim", "Bria data", "Bria error"},
		SimIndices:    []int{2},
		DataIndices:   []int{3},
		LocationNames: []string{"Bria"},
		YLabel:        "# of asylum seekers / unrecognized refugees",
		Source:        "runs/a/out.csv",
	}
	traces := ensemble.Traces{
		Dirs:     []string{"runs/a", "runs/b"},
		Values:   [][]float64{{4, 6}, {6, 4}},
		Excluded: []error{errors.New("schema mismatch in runs/c")},
	}
	summary, err := ensemble.Aggregate(traces, []float64{5, 6})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	results := []LocationResult{{
		Location:  schema.Locations()[0],
		Traces:    traces,
		Summary:   summary,
		Artifacts: render.Artifacts{Ensemble: "out/Briasim_Ensemble.png", Differences: "out/Briadata_Differences.png"},
	}}
	return Build(schema, "runs", "out", 3, results)
}

func TestBuild(t *testing.T) {
	rep := sampleReport(t)
	if rep.Mode != "flee" || rep.Replicas != 3 || len(rep.Locations) != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	loc := rep.Locations[0]
	if loc.Header != "Bria sim" || loc.Replicas != 2 || loc.Steps != 2 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.FinalMean == nil || *loc.FinalMean != 5 || loc.FinalStd == nil || *loc.FinalStd != 1 {
		t.Fatalf("unexpected final stats %v %v", loc.FinalMean, loc.FinalStd)
	}
	if loc.Peak == nil || *loc.Peak != 6 {
		t.Fatalf("unexpected peak %v", loc.Peak)
	}
	if loc.RMSE == nil || math.Abs(*loc.RMSE-math.Sqrt(0.5)) > 1e-9 {
		t.Fatalf("unexpected RMSE %v", loc.RMSE)
	}
	if len(loc.Excluded) != 1 {
		t.Fatalf("expected excluded replica to be reported, got %v", loc.Excluded)
	}
}

func TestBuildWithoutReferenceOmitsErrors(t *testing.T) {
	schema := header.Schema{
		Mode:          header.ModeHomecoming,
		Headers:       []string{"day", "Bangui"},
		SimIndices:    []int{1},
		DataIndices:   []int{header.NoData},
		LocationNames: []string{"Bangui"},
	}
	traces := ensemble.Traces{Values: [][]float64{{1, 2}}}
	summary, err := ensemble.Aggregate(traces, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	rep := Build(schema, "in", "out", 1, []LocationResult{{Location: schema.Locations()[0], Traces: traces, Summary: summary}})

	data, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal with NaN statistics should succeed: %v", err)
	}
	if strings.Contains(string(data), `"rmse"`) {
		t.Fatalf("expected rmse to be omitted, got %s", data)
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	rep := sampleReport(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "nested", "summary.json")
	if err := Write(jsonPath, "json", rep); err != nil {
		t.Fatalf("Write json: %v", err)
	}
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON Report
	if err := json.Unmarshal(raw, &fromJSON); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if fromJSON.Locations[0].Artifacts.Differences != "out/Briadata_Differences.png" {
		t.Fatalf("unexpected artifacts %+v", fromJSON.Locations[0].Artifacts)
	}

	yamlPath := filepath.Join(dir, "summary.yaml")
	if err := Write(yamlPath, "yaml", rep); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	raw, err = os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(raw, &fromYAML); err != nil {
		t.Fatalf("unmarshal yaml: %v", err)
	}
	if fromYAML["mode"] != "flee" {
		t.Fatalf("unexpected yaml mode %v", fromYAML["mode"])
	}
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(sampleReport(t))
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	for _, want := range []string{"fumeplot: flee ensemble report", `src="Briasim_Ensemble.png"`, `src="Briadata_Differences.png"`, "excluded: schema mismatch"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
	if strings.Contains(html, "histogram animation") {
		t.Fatal("expected no histogram link without an animation artifact")
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	PrintTable(&buf, sampleReport(t))
	out := buf.String()
	for _, want := range []string{"mode: flee", "Bria sim", "5.00", "excluded: schema mismatch", "1 locations, 2 files written"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table output:\n%s", want, out)
		}
	}
}

func TestWriteHTMLLinksRelativeToPage(t *testing.T) {
	dir := t.TempDir()
	rep := sampleReport(t)
	rep.OutputDir = filepath.Join(dir, "plots")
	rep.Locations[0].Artifacts = render.Artifacts{
		Ensemble:  filepath.Join(dir, "plots", "Briasim_Ensemble.png"),
		Histogram: filepath.Join(dir, "plots", "Briasim_Histogram.avi"),
	}

	page := filepath.Join(dir, "site", "index.html")
	if err := WriteHTML(page, rep); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	raw, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	html := string(raw)
	for _, want := range []string{`src="../plots/Briasim_Ensemble.png"`, `href="../plots/Briasim_Histogram.avi"`} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in HTML output:\n%s", want, html)
		}
	}
}
