// Package service wires presets, sample generators and the worker pool into
// the operations exposed over HTTP and the command line.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/xgmap/internal/adapters/eventsource"
	"github.com/okian/xgmap/internal/adapters/repository"
	workerpool "github.com/okian/xgmap/internal/adapters/worker"
	"github.com/okian/xgmap/internal/config"
	"github.com/okian/xgmap/internal/domain/colormap"
	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/internal/domain/sampling"
	"github.com/okian/xgmap/internal/domain/scoring"
	"github.com/okian/xgmap/pkg/logger"
	"github.com/okian/xgmap/pkg/metrics"
)

const (
	defaultParallelThreshold = 2000
	defaultMaxGridPoints     = 250_000
	defaultMaxScatterCount   = 10_000
	defaultDatasetCacheSize  = 64
	defaultDatasetPoints     = 1_000_000
	shutdownTimeout          = 10 * time.Second
)

// Service implements the xG operations used by the adapters.
type Service struct {
	mu sync.RWMutex

	// Components
	pool     *workerpool.Pool
	events   *eventsource.Loader
	datasets *repository.MemoryStore[*Dataset]

	// Configuration
	defaultPreset       string
	heatmapPreset       string
	workerCount         int
	parallelThreshold   int
	maxGridPoints       int
	maxScatterCount     int
	defaultScatterCount int
	heatmapStep         float64
	datasetCacheSize    int
	datasetPoints       int

	// State
	started   bool
	startedAt time.Time
	scores    atomic.Int64
	series    atomic.Int64
	points    atomic.Int64

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultPreset:       scoring.PresetTrained,
		heatmapPreset:       scoring.PresetIllustrative,
		workerCount:         runtime.NumCPU(),
		parallelThreshold:   defaultParallelThreshold,
		maxGridPoints:       defaultMaxGridPoints,
		maxScatterCount:     defaultMaxScatterCount,
		defaultScatterCount: sampling.DefaultScatterCount,
		heatmapStep:         sampling.DefaultGridStep,
		datasetCacheSize:    defaultDatasetCacheSize,
		datasetPoints:       defaultDatasetPoints,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.datasetCacheSize > 0 {
		s.datasets = repository.NewMemoryStore[*Dataset](
			repository.WithCapacity(s.datasetCacheSize),
			repository.WithMaxWeight(s.datasetPoints),
			repository.WithSizeObserver(metrics.UpdateDatasetsStored),
		)
	}
	return s
}

// FromConfig maps service configuration onto options.
func FromConfig(cfg *config.Config) []Option {
	return []Option{
		WithDefaultPreset(cfg.Preset),
		WithHeatmapPreset(cfg.HeatmapPreset),
		WithWorkerCount(cfg.WorkerCount),
		WithParallelThreshold(cfg.ParallelThreshold),
		WithMaxGridPoints(cfg.MaxGridPoints),
		WithMaxScatterCount(cfg.MaxScatterCount),
		WithDefaultScatterCount(cfg.DefaultScatterCount),
		WithHeatmapStep(cfg.HeatmapStep),
		WithDatasetCacheSize(cfg.DatasetCacheSize),
		WithDatasetCachePoints(cfg.DatasetCachePoints),
	}
}

// Start creates the worker pool. Sample sets generated before Start run
// sequentially.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if _, err := scoring.Lookup(s.defaultPreset); err != nil {
		return fmt.Errorf("default preset: %w", err)
	}
	if _, err := scoring.Lookup(s.heatmapPreset); err != nil {
		return fmt.Errorf("heatmap preset: %w", err)
	}

	s.pool = workerpool.NewPool(s.workerCount, workerpool.WithLogger(s.logger.Named("pool")))
	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "xg service started",
		logger.String("preset", s.defaultPreset),
		logger.Int("workers", s.workerCount),
		logger.Int("parallelThreshold", s.parallelThreshold),
	)
	return nil
}

// Stop waits for in-flight sample sets and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.pool.Shutdown(shutdownCtx)
	s.pool = nil
	s.started = false
	s.logger.Info(ctx, "xg service stopped")
	return err
}

// Preset resolves name, falling back to the default preset when empty.
func (s *Service) Preset(name string) (scoring.Preset, error) {
	if name == "" {
		name = s.defaultPreset
	}
	return scoring.Lookup(name)
}

func (s *Service) heatmapPresetOr(name string) string {
	if name == "" {
		return s.heatmapPreset
	}
	return name
}

// Presets lists the available presets.
func (s *Service) Presets() []scoring.Preset {
	return scoring.Presets()
}

// Evaluation is a scored position with its colour.
type Evaluation struct {
	Preset       string                 `json:"preset"`
	Position     geometry.FieldPosition `json:"position"`
	Features     geometry.Features      `json:"features"`
	Standardized geometry.Features      `json:"standardized"`
	LogOdds      float64                `json:"log_odds"`
	XG           float64                `json:"xg"`
	Color        colormap.RGBA          `json:"color"`
	CSS          string                 `json:"css"`
}

// Score evaluates a single position.
func (s *Service) Score(_ context.Context, presetName string, pos geometry.FieldPosition) (Evaluation, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return Evaluation{}, err
	}
	start := time.Now()
	ev := p.Scorer().Evaluate(pos)
	metrics.RecordScore(p.Name, float64(time.Since(start).Microseconds())/1000)
	s.scores.Add(1)

	c := colormap.ColorFor(ev.XG)
	return Evaluation{
		Preset:       p.Name,
		Position:     pos,
		Features:     ev.Features,
		Standardized: ev.Standardized,
		LogOdds:      ev.LogOdds,
		XG:           ev.XG,
		Color:        c,
		CSS:          c.String(),
	}, nil
}

// Angle is a shot angle in both units.
type Angle struct {
	Position geometry.FieldPosition `json:"position"`
	Radians  float64                `json:"radians"`
	Degrees  float64                `json:"degrees"`
}

// ShotAngle returns the goal-mouth angle at pos on the preset's pitch.
func (s *Service) ShotAngle(presetName string, pos geometry.FieldPosition) (Angle, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return Angle{}, err
	}
	rad := geometry.ShotAngle(pos, p.Geometry)
	return Angle{Position: pos, Radians: rad, Degrees: rad * 180 / math.Pi}, nil
}

// Color maps xg to its display colour.
func (s *Service) Color(xg float64) colormap.RGBA {
	return colormap.ColorFor(xg)
}

// ModelInfo describes a preset's model in readable form.
type ModelInfo struct {
	Preset     string                  `json:"preset"`
	Geometry   geometry.FieldGeometry  `json:"geometry"`
	Model      scoring.ModelParameters `json:"model"`
	Formula    string                  `json:"formula"`
	Importance []scoring.Importance    `json:"importance"`
}

// Model returns the coefficients, formula and feature importance of a preset.
func (s *Service) Model(presetName string) (ModelInfo, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return ModelInfo{}, err
	}
	return ModelInfo{
		Preset:     p.Name,
		Geometry:   p.Geometry,
		Model:      p.Model,
		Formula:    scoring.Formula(p.Model),
		Importance: scoring.FeatureImportance(p.Model),
	}, nil
}

// DistanceDefaults returns the default distance sweep for a preset's pitch.
func (s *Service) DistanceDefaults(presetName string) (sampling.DistanceOptions, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return sampling.DistanceOptions{}, err
	}
	return sampling.DefaultDistanceOptions(p.Geometry), nil
}

// AngleDefaults returns the default angle sweep for a preset's pitch.
func (s *Service) AngleDefaults(presetName string) (sampling.AngleOptions, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return sampling.AngleOptions{}, err
	}
	return sampling.DefaultAngleOptions(p.Geometry), nil
}

// HeatmapDefaults returns the default grid for a preset's pitch at the
// configured resolution. An empty name means the heatmap preset.
func (s *Service) HeatmapDefaults(presetName string) (sampling.GridOptions, error) {
	p, err := s.Preset(s.heatmapPresetOr(presetName))
	if err != nil {
		return sampling.GridOptions{}, err
	}
	o := sampling.DefaultGridOptions(p.Geometry)
	o.XStep, o.YStep = s.heatmapStep, s.heatmapStep
	return o, nil
}

// ScatterDefaults returns the default random scatter.
func (s *Service) ScatterDefaults() sampling.ScatterOptions {
	o := sampling.DefaultScatterOptions()
	o.Count = s.defaultScatterCount
	return o
}

// DistanceSeries runs a distance sweep.
func (s *Service) DistanceSeries(ctx context.Context, presetName string, o sampling.DistanceOptions) (*Dataset, error) {
	n, err := sampling.Steps("x", o.From, o.To, o.Step)
	if err != nil {
		return nil, err
	}
	return generate(ctx, s, KindDistance, presetName, n, s.maxGridPoints,
		func(ctx context.Context, g *sampling.Generator) ([]sampling.DistancePoint, error) {
			return g.DistanceSweep(ctx, o)
		})
}

// AngleSeries runs an angle sweep.
func (s *Service) AngleSeries(ctx context.Context, presetName string, o sampling.AngleOptions) (*Dataset, error) {
	n, err := sampling.Steps("y", o.YFrom, o.YTo, o.Step)
	if err != nil {
		return nil, err
	}
	return generate(ctx, s, KindAngle, presetName, n, s.maxGridPoints,
		func(ctx context.Context, g *sampling.Generator) ([]sampling.AnglePoint, error) {
			return g.AngleSweep(ctx, o)
		})
}

// HeatmapSeries scores a grid. An empty presetName means the heatmap preset,
// not the service default.
func (s *Service) HeatmapSeries(ctx context.Context, presetName string, o sampling.GridOptions) (*Dataset, error) {
	n, err := o.Size()
	if err != nil {
		return nil, err
	}
	return generate(ctx, s, KindHeatmap, s.heatmapPresetOr(presetName), n, s.maxGridPoints,
		func(ctx context.Context, g *sampling.Generator) ([]sampling.GridPoint, error) {
			return g.HeatmapGrid(ctx, o)
		})
}

// ScatterSeries draws and scores random positions.
func (s *Service) ScatterSeries(ctx context.Context, presetName string, o sampling.ScatterOptions) (*Dataset, error) {
	return generate(ctx, s, KindScatter, presetName, o.Count, s.maxScatterCount,
		func(ctx context.Context, g *sampling.Generator) ([]sampling.ScatterPoint, error) {
			return g.RandomScatter(ctx, o)
		})
}

// EventsSeries scores the shot locations found in src.
func (s *Service) EventsSeries(ctx context.Context, presetName, src string) (*Dataset, error) {
	if _, err := s.Preset(presetName); err != nil {
		return nil, err
	}
	loader := s.eventLoader()
	shots, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	positions := eventsource.Positions(shots)
	return generate(ctx, s, KindEvents, presetName, len(positions), math.MaxInt,
		func(ctx context.Context, g *sampling.Generator) ([]sampling.ScatterPoint, error) {
			return g.ScorePositions(ctx, positions)
		})
}

func (s *Service) eventLoader() *eventsource.Loader {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.events == nil {
		s.events = eventsource.NewLoader(eventsource.WithLogger(s.log().Named("eventsource")))
	}
	return s.events
}

// generate resolves the preset, enforces limit and runs fn on a generator
// that uses the pool for large sets.
func generate[T sampling.Record](
	ctx context.Context,
	s *Service,
	kind, presetName string,
	points, limit int,
	fn func(context.Context, *sampling.Generator) ([]T, error),
) (*Dataset, error) {
	p, err := s.Preset(presetName)
	if err != nil {
		return nil, err
	}
	if points > limit {
		metrics.RecordSeriesRejected(kind, "limit")
		return nil, fmt.Errorf("%w: %s needs %d points, limit is %d", ErrLimitExceeded, kind, points, limit)
	}

	start := time.Now()
	out, err := fn(ctx, s.generator(p, points))
	if err != nil {
		metrics.RecordErrorByComponent("service", kind)
		return nil, err
	}
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	metrics.RecordSeries(kind, p.Name, len(out), latencyMs)
	s.series.Add(1)
	s.points.Add(int64(len(out)))
	s.log().Debug(ctx, "sample set generated",
		logger.String("kind", kind),
		logger.String("preset", p.Name),
		logger.Int("points", len(out)),
		logger.Float64("latencyMs", latencyMs),
	)
	ds := newDataset(kind, p.Name, out)
	if s.datasets != nil {
		if err := s.datasets.Put(ctx, ds.ID, ds); err != nil {
			s.log().Debug(ctx, "sample set not kept for retrieval", logger.String("id", ds.ID), logger.Error(err))
		}
	}
	return ds, nil
}

// Dataset returns a previously generated sample set by ID.
func (s *Service) Dataset(ctx context.Context, id string) (*Dataset, error) {
	if s.datasets == nil {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	ds, err := s.datasets.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	return ds, err
}

// RecentDatasets describes up to limit stored sample sets, newest first.
func (s *Service) RecentDatasets(ctx context.Context, limit int) ([]DatasetInfo, error) {
	if s.datasets == nil {
		return []DatasetInfo{}, nil
	}
	stored, err := s.datasets.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]DatasetInfo, len(stored))
	for i, ds := range stored {
		out[i] = ds.Info()
	}
	return out, nil
}

func (s *Service) generator(p scoring.Preset, points int) *sampling.Generator {
	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()

	if pool == nil || points < s.parallelThreshold {
		return sampling.NewGenerator(p.Scorer())
	}
	return sampling.NewGenerator(p.Scorer(), sampling.WithRunner(pool))
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"defaultPreset":     s.defaultPreset,
		"workerCount":       s.workerCount,
		"parallelThreshold": s.parallelThreshold,
		"maxGridPoints":     s.maxGridPoints,
		"heatmapPreset":     s.heatmapPreset,
		"maxScatterCount":   s.maxScatterCount,
		"scores":            s.scores.Load(),
		"series":            s.series.Load(),
		"points":            s.points.Load(),
	}
	if s.datasets != nil {
		stats["datasetsStored"] = s.datasets.Count(context.Background())
	}
	if s.started {
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}
