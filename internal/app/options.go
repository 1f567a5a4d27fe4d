package service

import (
	"github.com/okian/xgmap/internal/adapters/eventsource"
	"github.com/okian/xgmap/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets how many rows the pool evaluates at once.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithParallelThreshold sets the point count from which sample sets are
// evaluated on the worker pool.
func WithParallelThreshold(points int) Option {
	return func(s *Service) {
		if points > 0 {
			s.parallelThreshold = points
		}
	}
}

// WithMaxGridPoints caps heatmap and sweep sizes.
func WithMaxGridPoints(points int) Option {
	return func(s *Service) {
		if points > 0 {
			s.maxGridPoints = points
		}
	}
}

// WithMaxScatterCount caps random scatter sizes.
func WithMaxScatterCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.maxScatterCount = count
		}
	}
}

// WithDefaultScatterCount sets the scatter size used when none is given.
func WithDefaultScatterCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.defaultScatterCount = count
		}
	}
}

// WithHeatmapStep sets the default heatmap resolution.
func WithHeatmapStep(step float64) Option {
	return func(s *Service) {
		if step > 0 {
			s.heatmapStep = step
		}
	}
}

// WithDatasetCacheSize sets how many generated sample sets are kept for
// retrieval by ID. Zero disables the cache.
func WithDatasetCacheSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.datasetCacheSize = n
		}
	}
}

// WithDatasetCachePoints bounds the total points of kept sample sets.
// Older sets are dropped to make room, and a set larger than the bound is
// not kept at all. Zero removes the bound.
func WithDatasetCachePoints(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.datasetPoints = n
		}
	}
}

// WithDefaultPreset sets the preset used when a request names none.
func WithDefaultPreset(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultPreset = name
		}
	}
}

// WithHeatmapPreset sets the preset used by heatmaps that name none.
func WithHeatmapPreset(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.heatmapPreset = name
		}
	}
}

// WithEventLoader sets the loader used for shot event sources.
func WithEventLoader(l *eventsource.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.events = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
