// Package sampletool implements the command line sample generator.
package sampletool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/xgmap/internal/adapters/export"
	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/config"
	"github.com/okian/xgmap/pkg/logger"
)

const outputFilePermission = 0o644

// Run generates the sample set described by cfg and writes it to cfg.Output
// or, when empty, to stdout. Service settings come from the xgmap config
// (XGMAP_CONFIG file, XGMAP_* env); flags override them.
func Run(ctx context.Context, cfg *Config, stdout io.Writer, opts ...service.Option) error {
	log := logger.Get().Named("xgsample")

	base, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svcOpts := append(service.FromConfig(base),
		service.WithLogger(log),
		service.WithDatasetCacheSize(0),
	)
	if cfg.Workers > 0 {
		svcOpts = append(svcOpts, service.WithWorkerCount(cfg.Workers))
	}
	if cfg.Step > 0 {
		svcOpts = append(svcOpts, service.WithHeatmapStep(cfg.Step))
	}
	svcOpts = append(svcOpts, opts...)
	svc := service.New(svcOpts...)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer func() { _ = svc.Stop(context.Background()) }()

	ds, err := generate(ctx, svc, cfg)
	if err != nil {
		return err
	}
	log.Info(ctx, "sample set generated",
		logger.String("id", ds.ID),
		logger.String("kind", ds.Kind),
		logger.String("preset", ds.Preset),
		logger.Int("count", ds.Count),
		logger.Float64("meanXG", ds.Summary.Mean),
	)

	out := stdout
	if cfg.Output != "" {
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	return write(out, cfg.Format, ds)
}

func generate(ctx context.Context, svc *service.Service, cfg *Config) (*service.Dataset, error) {
	switch cfg.Kind {
	case service.KindDistance:
		o, err := svc.DistanceDefaults(cfg.Preset)
		if err != nil {
			return nil, err
		}
		if cfg.Step > 0 {
			o.Step = cfg.Step
		}
		return svc.DistanceSeries(ctx, cfg.Preset, o)
	case service.KindAngle:
		o, err := svc.AngleDefaults(cfg.Preset)
		if err != nil {
			return nil, err
		}
		if cfg.Step > 0 {
			o.Step = cfg.Step
		}
		return svc.AngleSeries(ctx, cfg.Preset, o)
	case service.KindHeatmap:
		o, err := svc.HeatmapDefaults(cfg.Preset)
		if err != nil {
			return nil, err
		}
		return svc.HeatmapSeries(ctx, cfg.Preset, o)
	case service.KindScatter:
		o := svc.ScatterDefaults()
		if cfg.Count > 0 {
			o.Count = cfg.Count
		}
		o.Seed = cfg.Seed
		return svc.ScatterSeries(ctx, cfg.Preset, o)
	case service.KindEvents:
		return svc.EventsSeries(ctx, cfg.Preset, cfg.Events)
	default:
		return nil, fmt.Errorf("%w: %q", service.ErrUnknownKind, cfg.Kind)
	}
}

func write(w io.Writer, format string, ds *service.Dataset) error {
	if format == FormatCSV {
		return export.WriteCSV(w, ds.Points)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
