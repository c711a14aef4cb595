// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/fumeplot.json"
	// defaultLogFile is written next to the working directory when logFile is unset.
	defaultLogFile = "fumeplot.log"
	// defaultSummaryFormat is used when summaryFormat is unset or unknown.
	defaultSummaryFormat = "json"
	defaultBins          = 10
	defaultFrameRate     = 5
	defaultWidth         = 8.0
	defaultHeight        = 5.0
)

// Config represents the top-level application configuration.
type Config struct {
	Mode           string  `json:"mode,omitempty"`
	Input          string  `json:"input,omitempty"`
	Output         string  `json:"output,omitempty"`
	LogFile        string  `json:"logFile,omitempty"`
	Debug          bool    `json:"debug"`
	Animate        *bool   `json:"animate,omitempty"`
	SkipMismatched bool    `json:"skipMismatched"`
	Bins           int     `json:"bins,omitempty"`
	FrameRate      int     `json:"frameRate,omitempty"`
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	Summary        string  `json:"summary,omitempty"`
	SummaryFormat  string  `json:"summaryFormat,omitempty"`
	HTML           string  `json:"html,omitempty"`
	ConfigPath     string  `json:"-"`
}

// InputDir returns the ensemble directory for mode, defaulting to sample_<mode>_output.
func (c Config) InputDir(mode string) string {
	if in := strings.TrimSpace(c.Input); in != "" {
		return in
	}
	return fmt.Sprintf("sample_%s_output", mode)
}

// OutputDir returns the plot folder for mode, defaulting to <mode>Plots.
func (c Config) OutputDir(mode string) string {
	if out := strings.TrimSpace(c.Output); out != "" {
		return out
	}
	return mode + "Plots"
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// Format returns the summary export format, "json" or "yaml".
func (c Config) Format() string {
	switch strings.ToLower(strings.TrimSpace(c.SummaryFormat)) {
	case "yaml", "yml":
		return "yaml"
	default:
		return defaultSummaryFormat
	}
}

// SummaryPath returns where the summary is written for mode.
func (c Config) SummaryPath(mode string) string {
	if p := strings.TrimSpace(c.Summary); p != "" {
		return p
	}
	return filepath.Join(c.OutputDir(mode), "summary."+c.Format())
}

// HTMLPath returns where the HTML index is written for mode.
func (c Config) HTMLPath(mode string) string {
	if p := strings.TrimSpace(c.HTML); p != "" {
		return p
	}
	return filepath.Join(c.OutputDir(mode), "index.html")
}

// AnimationEnabled reports whether histogram animations are written. Unset means on.
func (c Config) AnimationEnabled() bool {
	return c.Animate == nil || *c.Animate
}

// HistogramBins returns the number of histogram bins, defaulting to 10.
func (c Config) HistogramBins() int {
	if c.Bins <= 0 {
		return defaultBins
	}
	return c.Bins
}

// FramesPerSecond returns the animation frame rate.
func (c Config) FramesPerSecond() int {
	if c.FrameRate <= 0 {
		return defaultFrameRate
	}
	return c.FrameRate
}

// Size returns the plot width and height in inches.
func (c Config) Size() (width, height float64) {
	width, height = c.Width, c.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// Load reads and validates a JSON configuration file.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}
