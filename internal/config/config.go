// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and XGMAP_ env vars.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Default preset names. Kept here rather than imported from the scoring
// package so config stays a leaf.
const (
	PresetTrained      = "trained"
	PresetIllustrative = "illustrative"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Preset is the model preset used when a request does not name one.
	Preset string `koanf:"preset"`

	// HeatmapPreset is used instead of Preset by heatmaps that name none.
	HeatmapPreset string `koanf:"heatmap_preset"`

	// WorkerCount bounds concurrent row evaluation for large series.
	WorkerCount int `koanf:"worker_count"`

	// ParallelThreshold is the point count above which series rows are
	// evaluated on the worker pool.
	ParallelThreshold int `koanf:"parallel_threshold"`

	// MaxGridPoints caps the lattice size accepted by /v1/series/heatmap.
	MaxGridPoints int `koanf:"max_grid_points"`

	// MaxScatterCount caps ?count on /v1/series/scatter.
	MaxScatterCount int `koanf:"max_scatter_count"`

	// DefaultScatterCount is used when a scatter request omits count.
	DefaultScatterCount int `koanf:"default_scatter_count"`

	// HeatmapStep is the default lattice step for both axes.
	HeatmapStep float64 `koanf:"heatmap_step"`

	// DatasetCacheSize is how many generated sample sets are kept for
	// /v1/datasets. Zero disables the cache.
	DatasetCacheSize int `koanf:"dataset_cache_size"`

	// DatasetCachePoints bounds the points held by kept sample sets; larger
	// sets are served but not kept. Zero removes the bound.
	DatasetCachePoints int `koanf:"dataset_cache_points"`

	// RateLimitRPS and RateLimitBurst throttle the HTTP API. Zero RPS disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		Preset:              PresetTrained,
		HeatmapPreset:       PresetIllustrative,
		WorkerCount:         runtime.NumCPU(),
		ParallelThreshold:   2_000,
		MaxGridPoints:       250_000,
		MaxScatterCount:     10_000,
		DefaultScatterCount: 50,
		HeatmapStep:         2,
		DatasetCacheSize:    64,
		DatasetCachePoints:  1_000_000,
		RateLimitRPS:        50,
		RateLimitBurst:      100,
	}
}

// Validate checks invariants that koanf cannot express.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Preset != PresetTrained && c.Preset != PresetIllustrative:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, c.Preset)
	case c.HeatmapPreset != PresetTrained && c.HeatmapPreset != PresetIllustrative:
		return fmt.Errorf("%w: unknown heatmap_preset %q", ErrInvalidConfig, c.HeatmapPreset)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxGridPoints < 1:
		return fmt.Errorf("%w: max_grid_points must be positive", ErrInvalidConfig)
	case c.MaxScatterCount < 1:
		return fmt.Errorf("%w: max_scatter_count must be positive", ErrInvalidConfig)
	case c.DefaultScatterCount < 0 || c.DefaultScatterCount > c.MaxScatterCount:
		return fmt.Errorf("%w: default_scatter_count must be within [0, max_scatter_count]", ErrInvalidConfig)
	case c.HeatmapStep <= 0:
		return fmt.Errorf("%w: heatmap_step must be positive", ErrInvalidConfig)
	case c.DatasetCacheSize < 0:
		return fmt.Errorf("%w: dataset_cache_size must not be negative", ErrInvalidConfig)
	case c.DatasetCachePoints < 0:
		return fmt.Errorf("%w: dataset_cache_points must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.RateLimitRPS > 0 && c.RateLimitBurst < 1:
		return fmt.Errorf("%w: rate_limit_burst must be positive when rate limiting is on", ErrInvalidConfig)
	}
	return nil
}
