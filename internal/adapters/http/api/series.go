package api

import (
	"net/http"

	"github.com/okian/xgmap/internal/adapters/export"
	service "github.com/okian/xgmap/internal/app"
)

const formatCSV = "csv"

// SeriesHandler serves generated sample sets.
type SeriesHandler struct {
	deps Dependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps Dependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

// HandleDistance handles GET /v1/series/distance requests.
// Query: x_from, x_to, step, fixed_y, preset, format.
func (h *SeriesHandler) HandleDistance(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	preset := r.URL.Query().Get("preset")
	o, err := h.deps.DistanceDefaults(preset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p := newParams(r.URL.Query())
	p.float("x_from", &o.From)
	p.float("x_to", &o.To)
	p.float("step", &o.Step)
	p.float("fixed_y", &o.FixedY)
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	ds, err := h.deps.DistanceSeries(r.Context(), preset, o)
	writeDataset(w, r, ds, err)
}

// HandleAngle handles GET /v1/series/angle requests.
// Query: fixed_x, y_from, y_to, step, center_y, reference_depth, preset, format.
func (h *SeriesHandler) HandleAngle(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	preset := r.URL.Query().Get("preset")
	o, err := h.deps.AngleDefaults(preset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p := newParams(r.URL.Query())
	p.float("fixed_x", &o.FixedX)
	p.float("y_from", &o.YFrom)
	p.float("y_to", &o.YTo)
	p.float("step", &o.Step)
	p.float("center_y", &o.CenterY)
	p.float("reference_depth", &o.ReferenceDepth)
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	ds, err := h.deps.AngleSeries(r.Context(), preset, o)
	writeDataset(w, r, ds, err)
}

// HandleHeatmap handles GET /v1/series/heatmap requests.
// Query: x_from, x_to, y_from, y_to, x_step, y_step, preset, format.
func (h *SeriesHandler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	preset := r.URL.Query().Get("preset")
	o, err := h.deps.HeatmapDefaults(preset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	p := newParams(r.URL.Query())
	readGrid(p, &o)
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	ds, err := h.deps.HeatmapSeries(r.Context(), preset, o)
	writeDataset(w, r, ds, err)
}

// HandleScatter handles GET /v1/series/scatter requests.
// Query: count, x_from, x_to, y_from, y_to, seed, preset, format.
func (h *SeriesHandler) HandleScatter(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	o := h.deps.ScatterDefaults()
	p := newParams(r.URL.Query())
	p.int("count", &o.Count)
	p.float("x_from", &o.XFrom)
	p.float("x_to", &o.XTo)
	p.float("y_from", &o.YFrom)
	p.float("y_to", &o.YTo)
	p.int64("seed", &o.Seed)
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	ds, err := h.deps.ScatterSeries(r.Context(), r.URL.Query().Get("preset"), o)
	writeDataset(w, r, ds, err)
}

func writeDataset(w http.ResponseWriter, r *http.Request, ds *service.Dataset, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, ds)
	case formatCSV:
		w.Header().Set("Content-Type", export.ContentTypeCSV)
		w.Header().Set("Content-Disposition", `attachment; filename="`+ds.Kind+`-`+ds.ID+`.csv"`)
		w.Header().Set("X-Dataset-Id", ds.ID)
		w.WriteHeader(http.StatusOK)
		_ = export.WriteCSV(w, ds.Points)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}
