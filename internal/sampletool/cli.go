package sampletool

import (
	"fmt"
	"io"

	"github.com/okian/xgmap/pkg/logger"
)

// SetupLogging routes logs to w so that stdout stays reserved for data.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the sample tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `xgmap sample tool
=================

Generates scored xG sample sets without running the server.

Usage:
  go run ./cmd/xgsample [options]

Options:
  -kind string
        distance, angle, heatmap, scatter or events (default "distance")
  -preset string
        trained or illustrative (default: preset from config, else trained)
  -format string
        json or csv (default "json")
  -output string
        Output file (default: stdout)
  -seed int
        Random seed for scatter; 0 draws a fresh seed
  -count int
        Number of scatter points (default: default_scatter_count from config, 50)
  -step float
        Sweep or grid step (default: 1 for sweeps, heatmap_step from config for heatmaps)
  -events string
        StatsBomb 360 frames file, directory or URL (required for -kind events)
  -workers int
        Number of concurrent rows for large grids (default: worker_count from config)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Configuration:
  Service settings (preset, limits, worker_count, heatmap_step) are read like
  the server reads them: XGMAP_CONFIG names a YAML file, XGMAP_* variables and
  a .env file override it, and flags override both.

Examples:
  # Distance sweep as CSV
  go run ./cmd/xgsample -kind distance -format csv

  # Reproducible scatter
  go run ./cmd/xgsample -kind scatter -count 500 -seed 42

  # Fine heatmap with the illustrative model
  go run ./cmd/xgsample -kind heatmap -preset illustrative -step 0.5 -output heatmap.json

  # Score real shot locations
  go run ./cmd/xgsample -kind events -events ./three-sixty/ -format csv
`)
}
