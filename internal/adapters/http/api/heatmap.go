package api

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/okian/xgmap/internal/domain/colormap"
	"github.com/okian/xgmap/internal/domain/sampling"
)

const (
	defaultCellPixels = 4
	maxCellPixels     = 32
	maxImagePixels    = 16 << 20
)

// heatmapImageHandler renders a heatmap grid as a PNG, one square of
// cellPixels per grid point. x runs left to right and y top to bottom.
type heatmapImageHandler struct {
	deps Dependencies
}

func newHeatmapImageHandler(deps Dependencies) *heatmapImageHandler {
	return &heatmapImageHandler{deps: deps}
}

// HandleHeatmapImage handles GET /v1/heatmap.png requests. It accepts the
// heatmap series query plus cell (pixels per point).
func (h *heatmapImageHandler) HandleHeatmapImage(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	preset := r.URL.Query().Get("preset")
	o, err := h.deps.HeatmapDefaults(preset)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	cell := defaultCellPixels
	p := newParams(r.URL.Query())
	readGrid(p, &o)
	p.int("cell", &cell)
	if p.err == nil && (cell < 1 || cell > maxCellPixels) {
		p.err = fmt.Errorf("%w: cell must be between 1 and %d", ErrBadRequest, maxCellPixels)
	}
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	nx, errX := sampling.Steps("x", o.XFrom, o.XTo, o.XStep)
	ny, errY := sampling.Steps("y", o.YFrom, o.YTo, o.YStep)
	if err := errors.Join(errX, errY); err != nil {
		writeDomainError(w, err)
		return
	}
	if float64(nx)*float64(ny)*float64(cell*cell) > maxImagePixels {
		writeDomainError(w, fmt.Errorf("%w: image would exceed %d pixels", ErrBadRequest, maxImagePixels))
		return
	}

	ds, err := h.deps.HeatmapSeries(r.Context(), preset, o)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	img := image.NewNRGBA(image.Rect(0, 0, nx*cell, ny*cell))
	for i, rec := range ds.Points {
		col, row := i/ny, i%ny
		c := colormap.ColorFor(rec.(sampling.GridPoint).XG).NRGBA()
		for dx := 0; dx < cell; dx++ {
			for dy := 0; dy < cell; dy++ {
				img.SetNRGBA(col*cell+dx, row*cell+dy, c)
			}
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Dataset-Id", ds.ID)
	w.WriteHeader(http.StatusOK)
	_ = png.Encode(w, img)
}

func readGrid(p *params, o *sampling.GridOptions) {
	p.float("x_from", &o.XFrom)
	p.float("x_to", &o.XTo)
	p.float("y_from", &o.YFrom)
	p.float("y_to", &o.YTo)
	p.float("x_step", &o.XStep)
	p.float("y_step", &o.YStep)
}
