package sampletool

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"

	service "github.com/okian/xgmap/internal/app"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUsage reports invalid command line input.
var ErrUsage = errors.New("usage error")

// Config holds the options of one run.
type Config struct {
	Kind    string // distance, angle, heatmap, scatter or events
	Preset  string // empty means the service default
	Format  string // json or csv
	Output  string // file path; empty writes to stdout
	Seed    int64  // scatter seed; 0 draws a fresh one
	Count   int    // scatter size; 0 means the default
	Step    float64
	Events  string // file, directory or URL of 360 frames for kind=events
	Workers int
	Verbose bool
	Help    bool
}

// ParseFlags reads a Config from args. Flag errors are written to errOut.
func ParseFlags(args []string, errOut io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("xgsample", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&cfg.Kind, "kind", service.KindDistance, "Sample kind: distance, angle, heatmap, scatter or events")
	fs.StringVar(&cfg.Preset, "preset", "", "Model preset (default: XGMAP_PRESET or the config file preset, else trained)")
	fs.StringVar(&cfg.Format, "format", FormatJSON, "Output format: json or csv")
	fs.StringVar(&cfg.Output, "output", "", "Output file (default: stdout)")
	fs.Int64Var(&cfg.Seed, "seed", 0, "Random seed for scatter (0: random)")
	fs.IntVar(&cfg.Count, "count", 0, "Number of scatter points (0: default)")
	fs.Float64Var(&cfg.Step, "step", 0, "Sweep or grid step (0: default)")
	fs.StringVar(&cfg.Events, "events", "", "StatsBomb 360 frames file, directory or URL for -kind events")
	fs.IntVar(&cfg.Workers, "workers", 0, "Number of concurrent rows for large grids (0: worker_count from config)")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cfg.Help, "help", false, "Show help")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if cfg.Help {
		return cfg, nil
	}
	return cfg, cfg.Validate()
}

// Validate checks flag combinations.
func (c *Config) Validate() error {
	switch {
	case !slices.Contains(service.Kinds(), c.Kind):
		return fmt.Errorf("%w: unknown kind %q", ErrUsage, c.Kind)
	case c.Format != FormatJSON && c.Format != FormatCSV:
		return fmt.Errorf("%w: unknown format %q", ErrUsage, c.Format)
	case c.Kind == service.KindEvents && c.Events == "":
		return fmt.Errorf("%w: -events is required for kind events", ErrUsage)
	case c.Count < 0:
		return fmt.Errorf("%w: count must not be negative", ErrUsage)
	case c.Step < 0:
		return fmt.Errorf("%w: step must not be negative", ErrUsage)
	}
	return nil
}
