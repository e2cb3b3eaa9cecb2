package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/angrysky56/esaf-framework-sub001/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set ESAF configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := activeConfig()
		fmt.Printf("zscore_threshold: %g\n", c.ZScoreThreshold)
		fmt.Printf("mad_threshold: %g\n", c.MADThreshold)
		fmt.Printf("history_limit: %d\n", c.HistoryLimit)
		fmt.Printf("correlation_max_columns: %d\n", c.CorrelationMaxColumns)
		fmt.Printf("watch_debounce_ms: %d\n", c.WatchDebounceMs)
		fmt.Printf("preview_token_limit: %d\n", c.PreviewTokenLimit)
		fmt.Printf("data_dir: %s\n", c.DataDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			loaded, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}
		if err := applyConfigKey(cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

// applyConfigKey validates and assigns a single configuration key.
func applyConfigKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "zscore_threshold":
		f, err := positiveFloat(key, val)
		if err != nil {
			return err
		}
		c.ZScoreThreshold = f
	case "mad_threshold":
		f, err := positiveFloat(key, val)
		if err != nil {
			return err
		}
		c.MADThreshold = f
	case "history_limit":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.HistoryLimit = i
	case "correlation_max_columns":
		i, err := strconv.Atoi(val)
		if err != nil || i < 2 {
			return fmt.Errorf("invalid int for correlation_max_columns (minimum 2): %v", val)
		}
		c.CorrelationMaxColumns = i
	case "watch_debounce_ms":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for watch_debounce_ms: %v", val)
		}
		c.WatchDebounceMs = i
	case "preview_token_limit":
		i, err := positiveInt(key, val)
		if err != nil {
			return err
		}
		c.PreviewTokenLimit = i
	case "data_dir":
		c.DataDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func positiveFloat(key, val string) (float64, error) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid positive float for %s: %v", key, val)
	}
	return f, nil
}

func positiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
	}
	return i, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
