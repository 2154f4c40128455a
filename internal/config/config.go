// Package config loads and validates the pipeline configuration from a YAML
// file with environment variable overrides. Validation runs before any
// scenario is processed; an invalid filter band or unreadable input root
// aborts the run with a ConfigError.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Render   RenderConfig   `mapstructure:"render"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PipelineConfig holds input/output roots and worker pool sizing
type PipelineConfig struct {
	InputRoot  string `mapstructure:"input_root"`
	OutputRoot string `mapstructure:"output_root"`
	Workers    int    `mapstructure:"workers"`
}

// FilterConfig holds the EV band and optional scenario metadata filters.
// GameType, Depth and Position restrict the walk before any file is decoded.
// TopHands limits each scenario to its N hardest retained hands; 0 keeps all.
type FilterConfig struct {
	MinEV    float64 `mapstructure:"min_ev"`
	MaxEV    float64 `mapstructure:"max_ev"`
	GameType string  `mapstructure:"game_type"`
	Depth    string  `mapstructure:"depth"`
	Position string  `mapstructure:"position"`
	TopHands int     `mapstructure:"top_hands"`
}

// RenderConfig holds canvas geometry and asset locations
type RenderConfig struct {
	Width     int    `mapstructure:"width"`
	Height    int    `mapstructure:"height"`
	AssetsDir string `mapstructure:"assets_dir"`
	FontPath  string `mapstructure:"font_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConfigError reports an invalid configuration value. It is fatal: the run
// aborts before any file is processed or written.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("HANDVIZ")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.input_root", "./poker_solutions")
	v.SetDefault("pipeline.output_root", "./visualizations")
	v.SetDefault("pipeline.workers", 0) // 0 = number of CPU cores

	// Band defaults match the analyst workflow this tool grew out of:
	// marginal decisions slightly above zero EV.
	v.SetDefault("filter.min_ev", 0.009)
	v.SetDefault("filter.max_ev", 0.05)
	v.SetDefault("filter.top_hands", 20)

	v.SetDefault("render.width", 1200)
	v.SetDefault("render.height", 800)
	v.SetDefault("render.assets_dir", "./assets/cards")
	v.SetDefault("render.font_path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid. All violations are
// returned as *ConfigError so callers can abort before any processing begins.
func (c *Config) Validate() error {
	if c.Pipeline.InputRoot == "" {
		return &ConfigError{Field: "pipeline.input_root", Reason: "is required"}
	}
	if info, err := os.Stat(c.Pipeline.InputRoot); err != nil {
		return &ConfigError{Field: "pipeline.input_root", Reason: fmt.Sprintf("is not readable: %v", err)}
	} else if !info.IsDir() {
		return &ConfigError{Field: "pipeline.input_root", Reason: "is not a directory"}
	}
	if c.Pipeline.OutputRoot == "" {
		return &ConfigError{Field: "pipeline.output_root", Reason: "is required"}
	}
	if c.Pipeline.Workers < 0 {
		return &ConfigError{Field: "pipeline.workers", Reason: "must not be negative"}
	}

	if c.Filter.MinEV > c.Filter.MaxEV {
		return &ConfigError{
			Field:  "filter.min_ev",
			Reason: fmt.Sprintf("%v exceeds filter.max_ev %v", c.Filter.MinEV, c.Filter.MaxEV),
		}
	}
	if c.Filter.TopHands < 0 {
		return &ConfigError{Field: "filter.top_hands", Reason: "must not be negative"}
	}

	if c.Render.Width < 200 || c.Render.Height < 200 {
		return &ConfigError{Field: "render.width", Reason: "canvas must be at least 200x200"}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &ConfigError{Field: "logging.level", Reason: "must be one of: debug, info, warn, error"}
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return &ConfigError{Field: "logging.format", Reason: "must be one of: json, text"}
	}

	return nil
}

// WorkerCount resolves the configured worker count, defaulting to the number
// of available CPU cores.
func (c *Config) WorkerCount() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.NumCPU()
}
