// internal/report/table.go
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mwiater/fumeplot/internal/util"
)

const nameWidth = 28

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	badgeStyle  = lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	nameStyle   = lipgloss.NewStyle().Width(nameWidth)
	cellStyle   = lipgloss.NewStyle().Width(11).Align(lipgloss.Right)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	warnText = color.New(color.FgYellow).SprintFunc()
	dimText  = color.New(color.Faint).SprintFunc()
	okText   = color.New(color.FgGreen).SprintFunc()
)

// PrintTable writes a per-location summary for terminal output.
func PrintTable(w io.Writer, rep Report) {
	fmt.Fprintln(w, titleStyle.Render("fumeplot")+" "+badgeStyle.Render("mode: "+rep.Mode))
	fmt.Fprintf(w, "schema: %s\nreplicas: %d\noutput: %s\n\n", rep.Source, rep.Replicas, rep.OutputDir)

	head := []string{"replicas", "days", "final mean", "final std", "rmse", "ard"}
	var b strings.Builder
	b.WriteString(headerStyle.Render(nameStyle.Render("location")))
	for _, h := range head {
		b.WriteString(headerStyle.Render(cellStyle.Render(h)))
	}
	fmt.Fprintln(w, b.String())

	for _, loc := range rep.Locations {
		b.Reset()
		b.WriteString(nameStyle.Render(util.TruncateRunes(loc.Header, nameWidth-2)))
		b.WriteString(cellStyle.Render(fmt.Sprintf("%d", loc.Replicas)))
		b.WriteString(cellStyle.Render(fmt.Sprintf("%d", loc.Steps)))
		b.WriteString(cellStyle.Render(formatNumber(loc.FinalMean)))
		b.WriteString(cellStyle.Render(formatNumber(loc.FinalStd)))
		if loc.HasReference {
			b.WriteString(cellStyle.Render(formatNumber(loc.RMSE)))
			b.WriteString(cellStyle.Render(formatNumber(loc.MAD)))
		} else {
			b.WriteString(cellStyle.Render(dimText("n/a")))
			b.WriteString(cellStyle.Render(dimText("n/a")))
		}
		fmt.Fprintln(w, b.String())
		for _, ex := range loc.Excluded {
			fmt.Fprintln(w, "  "+warnText("excluded: "+ex))
		}
	}

	files := 0
	for _, loc := range rep.Locations {
		files += len(loc.Artifacts.Files())
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, okText(fmt.Sprintf("%d locations, %d files written", len(rep.Locations), files)))
}

func formatNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
