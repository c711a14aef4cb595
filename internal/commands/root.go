// internal/commands/root.go
package fumeplot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/mwiater/fumeplot/internal/appconfig"
	"github.com/mwiater/fumeplot/internal/header"
	"github.com/mwiater/fumeplot/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

var (
	boolFlags   = []string{"debug", "animate", "skipMismatched"}
	stringFlags = []string{"input", "output", "logFile", "summary", "summaryFormat", "html"}
	intFlags    = []string{"bins", "frameRate"}
	floatFlags  = []string{"width", "height"}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fumeplot [mode]",
	Short: "fumeplot: ensemble plots and summaries for flee, homecoming and facs runs",
	Long: `Read the out.csv of every replica in an ensemble run, derive the column
layout from the first readable header, and write per-location ensemble,
spread and residual plots plus a summary for the chosen mode.

Modes: flee, homecoming (default), facs.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := appconfig.ValidateFile(cfgFile); err != nil {
			return err
		}
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		flags := cmd.Flags()
		for _, name := range boolFlags {
			if !flags.Changed(name) {
				_ = flags.Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range stringFlags {
			if !flags.Changed(name) {
				_ = flags.Set(name, viper.GetString(name))
			}
		}
		for _, name := range intFlags {
			if !flags.Changed(name) {
				_ = flags.Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}
		for _, name := range floatFlags {
			if !flags.Changed(name) {
				_ = flags.Set(name, strconv.FormatFloat(viper.GetFloat64(name), 'f', -1, 64))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeFromArgs(args)
		if err != nil {
			return err
		}
		_, err = runEnsemble(*GetConfig(), mode, cmd.OutOrStdout())
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = versionString()

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/fumeplot.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("animate", true, "write the per-day histogram animation (.avi); --animate=false to skip")
	rootCmd.PersistentFlags().Bool("skipMismatched", false, "exclude replicas whose tables disagree with the first one instead of failing")
	rootCmd.PersistentFlags().StringP("input", "i", "", "ensemble directory (default sample_<mode>_output)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "plot folder (default <mode>Plots)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("summary", "", "summary file path (default <output>/summary.<format>)")
	rootCmd.PersistentFlags().String("summaryFormat", "", "summary format: json or yaml")
	rootCmd.PersistentFlags().String("html", "", "HTML index path (default <output>/index.html)")
	rootCmd.PersistentFlags().Int("bins", 0, "histogram bins (0 = default)")
	rootCmd.PersistentFlags().Int("frameRate", 0, "animation frames per second (0 = default)")
	rootCmd.PersistentFlags().Float64("width", 0, "plot width in inches (0 = default)")
	rootCmd.PersistentFlags().Float64("height", 0, "plot height in inches (0 = default)")

	for _, group := range [][]string{boolFlags, stringFlags, intFlags, floatFlags} {
		for _, name := range group {
			_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file. A missing file is not an error.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// modeFromArgs picks the positional mode, then the configured one, then the default.
func modeFromArgs(args []string) (header.Mode, error) {
	name := ""
	if cfg := GetConfig(); cfg != nil {
		name = cfg.Mode
	}
	if len(args) > 0 {
		name = args[0]
	}
	return header.ParseMode(name)
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)
}
