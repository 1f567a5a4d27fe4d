// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/time/rate"

	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/internal/domain/sampling"
	"github.com/okian/xgmap/internal/domain/scoring"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Score(ctx context.Context, preset string, pos geometry.FieldPosition) (service.Evaluation, error)
	ShotAngle(preset string, pos geometry.FieldPosition) (service.Angle, error)
	Model(preset string) (service.ModelInfo, error)
	Presets() []scoring.Preset

	DistanceDefaults(preset string) (sampling.DistanceOptions, error)
	AngleDefaults(preset string) (sampling.AngleOptions, error)
	HeatmapDefaults(preset string) (sampling.GridOptions, error)
	ScatterDefaults() sampling.ScatterOptions

	DistanceSeries(ctx context.Context, preset string, o sampling.DistanceOptions) (*service.Dataset, error)
	AngleSeries(ctx context.Context, preset string, o sampling.AngleOptions) (*service.Dataset, error)
	HeatmapSeries(ctx context.Context, preset string, o sampling.GridOptions) (*service.Dataset, error)
	ScatterSeries(ctx context.Context, preset string, o sampling.ScatterOptions) (*service.Dataset, error)

	DatasetStore
}

// Server wires HTTP routes for the xG API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scoreHandler   *ScoreHandler
	seriesHandler  *SeriesHandler
	modelHandler   *ModelHandler
	heatmapHandler *heatmapImageHandler
	datasetHandler *DatasetsHandler
	liveHandler    *LiveHandler
	limiter        *rate.Limiter
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRateLimit limits /v1 requests to rps per second with the given burst.
// rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		scoreHandler:   NewScoreHandler(deps),
		seriesHandler:  NewSeriesHandler(deps),
		modelHandler:   NewModelHandler(deps),
		heatmapHandler: newHeatmapImageHandler(deps),
		datasetHandler: NewDatasetsHandler(deps),
		liveHandler:    NewLiveHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	s.handle(mux, "/v1/score", "score", s.scoreHandler.HandleScore)
	s.handle(mux, "/v1/angle", "angle", s.scoreHandler.HandleAngle)
	s.handle(mux, "/v1/color", "color", s.scoreHandler.HandleColor)
	s.handle(mux, "/v1/model", "model", s.modelHandler.HandleModel)
	s.handle(mux, "/v1/presets", "presets", s.modelHandler.HandlePresets)
	s.handle(mux, "/v1/series/distance", "series_distance", s.seriesHandler.HandleDistance)
	s.handle(mux, "/v1/series/angle", "series_angle", s.seriesHandler.HandleAngle)
	s.handle(mux, "/v1/series/heatmap", "series_heatmap", s.seriesHandler.HandleHeatmap)
	s.handle(mux, "/v1/series/scatter", "series_scatter", s.seriesHandler.HandleScatter)
	s.handle(mux, "/v1/heatmap.png", "heatmap_png", s.heatmapHandler.HandleHeatmapImage)
	s.handle(mux, "/v1/datasets", "datasets", s.datasetHandler.HandleList)
	s.handle(mux, "/v1/datasets/{id}", "dataset", s.datasetHandler.HandleGet)
	s.handle(mux, "/v1/live", "live", s.liveHandler.HandleLive)
}

func (s *Server) handle(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, MetricsMiddleware(RateLimitMiddleware(s.limiter, h), endpoint))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps service and domain errors to HTTP responses.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, scoring.ErrUnknownPreset):
		return http.StatusNotFound, "unknown_preset"
	case errors.Is(err, service.ErrDatasetNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, sampling.ErrInvalidRange),
		errors.Is(err, service.ErrLimitExceeded):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return false
	}
	return true
}
