// internal/commands/run_test.go
package fumeplot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwiater/fumeplot/internal/appconfig"
	"github.com/mwiater/fumeplot/internal/ensemble"
	"github.com/mwiater/fumeplot/internal/header"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// homecomingEnsemble writes three replicas under RUNS with two locations.
func homecomingEnsemble(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for r := 0; r < 3; r++ {
		var b strings.Builder
		b.WriteString("day,Bangui,Bria Town\n")
		for day := 0; day < 4; day++ {
			fmt.Fprintf(&b, "%d,%d,%d\n", day, 10*day+r, 5*day)
		}
		writeFile(t, filepath.Join(root, "RUNS", fmt.Sprintf("run_%d", r), header.ResultsFile), b.String())
	}
	writeFile(t, filepath.Join(root, "RUNS", "run_0", header.MovelogFile), "day,from,to,count\n0,Bangui,Bria,3\n")
	return root
}

// fleeEnsemble writes two replicas with one camp and its observed series.
func fleeEnsemble(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	head := "Day,Date,Bambari sim,Bambari data,Bambari error,Total error,refugees in camps (UNHCR),total refugees (simulation),raw UNHCR refugee count,refugees in camps (simulation),refugee_debt\n"
	for r, offset := range []int{0, 2} {
		var b strings.Builder
		b.WriteString(head)
		for day := 0; day < 3; day++ {
			fmt.Fprintf(&b, "%d,2013-12-0%d,%d,%d,0,0,0,0,0,0,0\n", day, day+1, 10*day+offset, 10*day)
		}
		writeFile(t, filepath.Join(root, fmt.Sprintf("replica_%d", r), header.ResultsFile), b.String())
	}
	return root
}

func TestRunEnsembleHomecoming(t *testing.T) {
	input := homecomingEnsemble(t)
	output := filepath.Join(t.TempDir(), "homecomingPlots")
	cfg := appconfig.Config{Input: input, Output: output}

	var buf bytes.Buffer
	rep, err := runEnsemble(cfg, header.ModeHomecoming, &buf)
	if err != nil {
		t.Fatalf("runEnsemble: %v", err)
	}
	if rep.Replicas != 3 || len(rep.Locations) != 2 {
		t.Fatalf("unexpected report %+v", rep)
	}
	bria := rep.Locations[1]
	if bria.Header != "Bria Town" || bria.HasReference || bria.Artifacts.Differences != "" || bria.Artifacts.Histogram == "" {
		t.Fatalf("unexpected location %+v", bria)
	}
	if bria.FinalStd == nil || *bria.FinalStd != 0 {
		t.Fatalf("identical replicas should have zero spread, got %v", bria.FinalStd)
	}
	for _, name := range []string{"Bangui_Ensemble.png", "Bangui_std.png", "Bangui_Histogram.avi", "BriaTown_Ensemble.png", "BriaTown_std.png", "BriaTown_Histogram.avi", "summary.json", "index.html"} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	if !strings.Contains(buf.String(), "Bangui") {
		t.Fatalf("expected terminal table, got %s", buf.String())
	}
}

func TestRunEnsembleFleeWithReference(t *testing.T) {
	input := fleeEnsemble(t)
	output := t.TempDir()
	cfg := appconfig.Config{Input: input, Output: output, SummaryFormat: "yaml"}

	rep, err := runEnsemble(cfg, header.ModeFlee, new(bytes.Buffer))
	if err != nil {
		t.Fatalf("runEnsemble: %v", err)
	}
	loc := rep.Locations[0]
	if loc.Name != "Bambari" || !loc.HasReference {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.RMSE == nil || *loc.RMSE != 1 || loc.MAD == nil || *loc.MAD != 1 {
		t.Fatalf("expected RMSE and ARD of 1, got %v %v", loc.RMSE, loc.MAD)
	}
	for _, name := range []string{"Bambarisim_Ensemble.png", "Bambaridata_Differences.png", "summary.yaml"} {
		if _, err := os.Stat(filepath.Join(output, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
}

func TestRunEnsembleMismatchedReplica(t *testing.T) {
	input := homecomingEnsemble(t)
	writeFile(t, filepath.Join(input, "RUNS", "run_9", header.ResultsFile), "day,Bangui,Bria Town\n0,1,1\n")

	cfg := appconfig.Config{Input: input, Output: t.TempDir()}
	if _, err := runEnsemble(cfg, header.ModeHomecoming, new(bytes.Buffer)); !errors.Is(err, ensemble.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}

	cfg.SkipMismatched = true
	rep, err := runEnsemble(cfg, header.ModeHomecoming, new(bytes.Buffer))
	if err != nil {
		t.Fatalf("lenient run: %v", err)
	}
	if rep.Locations[0].Replicas != 3 || len(rep.Locations[0].Excluded) != 1 {
		t.Fatalf("expected one excluded replica, got %+v", rep.Locations[0])
	}
}

func TestSchemaCommandOutput(t *testing.T) {
	useConfig(t, writeTempConfig(t, "{}"))
	input := fleeEnsemble(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"schema", "flee", "--input", input})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "mode:      flee") || !strings.Contains(out, "locations: 1") {
		t.Fatalf("unexpected schema output %s", out)
	}
	if !strings.Contains(out, "sim=2 data=3 (Bambari data)") {
		t.Fatalf("expected location indices, got %s", out)
	}
}

func TestMovelogCommandOutput(t *testing.T) {
	useConfig(t, writeTempConfig(t, "{}"))
	input := homecomingEnsemble(t)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"movelog", "--input", input})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("ExecuteC error: %v", err)
	}
	if !strings.Contains(buf.String(), "  3  count") {
		t.Fatalf("unexpected movelog output %q", buf.String())
	}
}

func TestRunEnsembleLenientReferenceFromKeptReplica(t *testing.T) {
	input := fleeEnsemble(t)
	head := "Day,Date,Bambari sim,Bambari data,Bambari error,Total error,refugees in camps (UNHCR),total refugees (simulation),raw UNHCR refugee count,refugees in camps (simulation),refugee_debt\n"
	writeFile(t, filepath.Join(input, "a_bad", header.ResultsFile),
		head+"0,2013-12-01,n/a,0,0,0,0,0,0,0,0\n1,2013-12-02,1,10,0,0,0,0,0,0,0\n2,2013-12-03,2,20,0,0,0,0,0,0,0\n3,2013-12-04,3,30,0,0,0,0,0,0,0\n")

	cfg := appconfig.Config{Input: input, Output: t.TempDir(), SkipMismatched: true}
	rep, err := runEnsemble(cfg, header.ModeFlee, new(bytes.Buffer))
	if err != nil {
		t.Fatalf("lenient run should survive a bad first replica: %v", err)
	}
	loc := rep.Locations[0]
	if loc.Replicas != 2 || len(loc.Excluded) != 1 || loc.Steps != 3 {
		t.Fatalf("unexpected location %+v", loc)
	}
	if loc.RMSE == nil || *loc.RMSE != 1 {
		t.Fatalf("expected reference from a kept replica, got RMSE %v", loc.RMSE)
	}
}
