// internal/report/html.go
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

type htmlData struct {
	Title   string
	BaseDir string
	Report  Report
}

var htmlFuncs = template.FuncMap{
	"link": relativeLink,
	"num": func(v *float64) string {
		if v == nil {
			return "–"
		}
		return fmt.Sprintf("%.2f", *v)
	},
}

var reportTemplate = template.Must(template.New("ensemble-report").Funcs(htmlFuncs).Parse(reportTemplateHTML))

// GenerateHTML renders an index page linking every artifact, with links
// relative to the output folder.
func GenerateHTML(rep Report) (string, error) {
	return generateHTML(rep, rep.OutputDir)
}

func generateHTML(rep Report, baseDir string) (string, error) {
	var buf bytes.Buffer
	data := htmlData{
		Title:   fmt.Sprintf("fumeplot: %s ensemble report", rep.Mode),
		BaseDir: baseDir,
		Report:  rep,
	}
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteHTML renders the index page and writes it to path. Links are relative
// to the directory of path.
func WriteHTML(path string, rep Report) error {
	html, err := generateHTML(rep, filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("failed generating HTML report: %w", err)
	}
	return writeFile(path, []byte(html))
}

// relativeLink returns path relative to dir with forward slashes.
func relativeLink(dir, path string) string {
	if path == "" {
		return ""
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; color: #222; }
    table { border-collapse: collapse; margin-bottom: 2rem; }
    th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: right; }
    th:first-child, td:first-child { text-align: left; }
    section { margin-bottom: 2rem; }
    img { max-width: 48%; margin-right: 1%; }
    .excluded { color: #a00; font-size: 0.9rem; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>Schema read from <code>{{.Report.Source}}</code>; {{.Report.Replicas}} replicas in <code>{{.Report.InputDir}}</code>.</p>
  <table>
    <tr><th>Location</th><th>Replicas</th><th>Days</th><th>Final mean</th><th>Final std</th><th>Peak</th><th>RMSE</th><th>ARD</th></tr>
    {{- range .Report.Locations}}
    <tr><td>{{.Header}}</td><td>{{.Replicas}}</td><td>{{.Steps}}</td><td>{{num .FinalMean}}</td><td>{{num .FinalStd}}</td><td>{{num .Peak}}</td><td>{{num .RMSE}}</td><td>{{num .MAD}}</td></tr>
    {{- end}}
  </table>
  {{- range .Report.Locations}}
  <section>
    <h2>{{.Header}}</h2>
    {{- with .Artifacts.Ensemble}}<img src="{{link $.BaseDir .}}" alt="ensemble traces">{{end}}
    {{- with .Artifacts.Std}}<img src="{{link $.BaseDir .}}" alt="mean and spread">{{end}}
    {{- with .Artifacts.Differences}}<img src="{{link $.BaseDir .}}" alt="differences">{{end}}
    {{- with .Artifacts.Histogram}}<p><a href="{{link $.BaseDir .}}">histogram animation</a></p>{{end}}
    {{- range .Excluded}}<p class="excluded">excluded: {{.}}</p>{{end}}
  </section>
  {{- end}}
</body>
</html>
`
