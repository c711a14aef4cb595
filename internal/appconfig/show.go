package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the effective configuration for mode, with every default applied.
func ShowConfig(out io.Writer, file string, cfg Config, mode string) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	width, height := cfg.Size()
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Mode:            %s\n", mode)
	fmt.Fprintf(out, "  Input:           %s\n", cfg.InputDir(mode))
	fmt.Fprintf(out, "  Output:          %s\n", cfg.OutputDir(mode))
	fmt.Fprintf(out, "  Log File:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Skip Mismatched: %v\n", cfg.SkipMismatched)
	fmt.Fprintf(out, "  Plot Size:       %gx%g in\n", width, height)
	fmt.Fprintf(out, "  Summary:         %s (%s)\n", cfg.SummaryPath(mode), cfg.Format())
	fmt.Fprintf(out, "  HTML:            %s\n", cfg.HTMLPath(mode))
	fmt.Fprintf(out, "  Animate:         %v\n", cfg.AnimationEnabled())
	if cfg.AnimationEnabled() {
		fmt.Fprintf(out, "  Histogram Bins:  %d\n", cfg.HistogramBins())
		fmt.Fprintf(out, "  Frame Rate:      %d fps\n", cfg.FramesPerSecond())
	}
}
