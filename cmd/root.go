package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/angrysky56/esaf-framework-sub001/internal/agents"
	cfgpkg "github.com/angrysky56/esaf-framework-sub001/internal/config"
)

var (
	cfgFile string
	debug   bool
	// Threshold flags, zero means "use config"
	flagZThreshold   float64
	flagMADThreshold float64

	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "esaf",
	Short: "ESAF: statistical and Bayesian analysis over local data files",
	Long: `ESAF (Evolved Synergistic Agentic Framework) ingests CSV, JSON, text, and
office files into an in-memory data context and analyzes them through
specialized agents: anomaly detection, feature extraction, quality
validation, and Bayesian reliability assessment.`,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command. main delegates here.
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.esaf/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().Float64Var(&flagZThreshold, "zscore-threshold", 0, "z-score anomaly threshold (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagMADThreshold, "mad-threshold", 0, "modified z-score anomaly threshold (overrides config)")
}

func loadConfig() {
	if debug {
		zc := zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		if l, err := zc.Build(); err == nil {
			logger = l
		}
	}

	loaded, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Commands that never touch config should still run.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = loaded

	// Threshold flags win over file and env values.
	f := rootCmd.PersistentFlags()
	if f.Changed("zscore-threshold") && flagZThreshold > 0 {
		cfg.ZScoreThreshold = flagZThreshold
	}
	if f.Changed("mad-threshold") && flagMADThreshold > 0 {
		cfg.MADThreshold = flagMADThreshold
	}
}

// activeConfig returns the loaded configuration, or the defaults when config
// loading failed.
func activeConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		ZScoreThreshold:       2.5,
		MADThreshold:          3.5,
		HistoryLimit:          5,
		CorrelationMaxColumns: 32,
		WatchDebounceMs:       500,
		PreviewTokenLimit:     600,
	}
}

// newRegistry builds the agent registry with configured thresholds applied
// to the built-ins.
func newRegistry() *agents.Registry {
	c := activeConfig()
	reg := agents.NewRegistry(agents.WithLogger(logger))
	if ag, ok := reg.Get("anomaly"); ok {
		if a, ok := ag.(*agents.AnomalyAgent); ok {
			a.ZThreshold = c.ZScoreThreshold
			a.MADThreshold = c.MADThreshold
		}
	}
	if ag, ok := reg.Get("features"); ok {
		if fa, ok := ag.(*agents.FeaturesAgent); ok {
			fa.MaxColumns = c.CorrelationMaxColumns
		}
	}
	return reg
}
