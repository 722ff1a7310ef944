package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/encodekit/internal/config"
	"github.com/KaramelBytes/encodekit/internal/logging"
)

var (
	// Global flags
	cfgFile       string
	debug         bool
	flagLogFile   string
	flagTarget    string
	flagDelimiter string
	indexColumn   bool

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "encodekit",
	Short:         "encodekit: categorical encoding, correlation reports and model selection for tabular data",
	Long:          `encodekit encodes categorical features by group statistics of a target (ordinal, target and dummy coding), reports correlations of the encoded data as Markdown and heatmaps, and cross-validates regressors while keeping a CSV log of every run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.encodekit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "also write JSON logs to this rotating file (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagTarget, "target", "t", "", "target column (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&indexColumn, "index-col", false, "treat the first CSV column as a row index")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{Target: "salary", Metric: "mean", LogPath: "model_log.csv", PlotsDir: "plots",
			HeatmapCMap: "coolwarm", HeatmapSize: 12, HeatmapFontScale: 1, HeatmapDP: 2, CVFolds: 5}
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("target") && flagTarget != "" {
		cfg.Target = flagTarget
	}
	if f.Changed("delimiter") && flagDelimiter != "" {
		if err := cfg.Set("delimiter", flagDelimiter); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: ignoring --delimiter: %v\n", err)
		}
	}
	if f.Changed("log-file") {
		cfg.LogFile = flagLogFile
	}
	logger = logging.Init(logging.Options{File: cfg.LogFile, Debug: debug})
}
