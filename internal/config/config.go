package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global holds the analysis thresholds and session knobs shared by every
// command. Fields map 1:1 to keys in ~/.esaf/config.yaml.
type Global struct {
	ZScoreThreshold       float64 `mapstructure:"zscore_threshold" yaml:"zscore_threshold"`
	MADThreshold          float64 `mapstructure:"mad_threshold" yaml:"mad_threshold"`
	HistoryLimit          int     `mapstructure:"history_limit" yaml:"history_limit"`
	CorrelationMaxColumns int     `mapstructure:"correlation_max_columns" yaml:"correlation_max_columns"`
	WatchDebounceMs       int     `mapstructure:"watch_debounce_ms" yaml:"watch_debounce_ms"`
	PreviewTokenLimit     int     `mapstructure:"preview_token_limit" yaml:"preview_token_limit"`
	DataDir               string  `mapstructure:"data_dir" yaml:"data_dir"`
}

var defaults = map[string]any{
	"zscore_threshold":        2.5,
	"mad_threshold":           3.5,
	"history_limit":           5,
	"correlation_max_columns": 32,
	"watch_debounce_ms":       500,
	"preview_token_limit":     600,
}

// configDir resolves ~/.esaf, creating it when asked. A failed mkdir still
// returns the path so callers that can live without the directory may.
func configDir(create bool) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".esaf")
	if create {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return dir, fmt.Errorf("mkdir config dir: %w", err)
		}
	}
	return dir, nil
}

// Save writes c to cfgFile, or to ~/.esaf/config.yaml when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir(true)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load resolves configuration with precedence: env (ESAF_*) over config file
// over defaults. cfgFile overrides the ~/.esaf/config.yaml search path.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ESAF")
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir(true)
		if dir == "" {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// The config file itself is optional.
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.DataDir == "" {
		dir, err := configDir(false)
		if err != nil {
			return nil, err
		}
		c.DataDir = filepath.Join(dir, "data")
	}
	return &c, nil
}
