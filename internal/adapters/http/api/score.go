package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/domain/colormap"
	"github.com/okian/xgmap/internal/domain/geometry"
)

// ScoreDependencies defines the single-point operations.
type ScoreDependencies interface {
	Score(ctx context.Context, preset string, pos geometry.FieldPosition) (service.Evaluation, error)
	ShotAngle(preset string, pos geometry.FieldPosition) (service.Angle, error)
}

// ScoreHandler handles single position requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

// HandleScore handles GET /v1/score?x=&y=&preset= requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	p := newParams(r.URL.Query())
	pos := p.position()
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	ev, err := h.deps.Score(r.Context(), r.URL.Query().Get("preset"), pos)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleAngle handles GET /v1/angle?x=&y= requests.
func (h *ScoreHandler) HandleAngle(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	p := newParams(r.URL.Query())
	pos := p.position()
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	a, err := h.deps.ShotAngle(r.URL.Query().Get("preset"), pos)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type colorResponse struct {
	XG    float64       `json:"xg"`
	Color colormap.RGBA `json:"color"`
	CSS   string        `json:"css"`
}

// HandleColor handles GET /v1/color?xg= requests.
func (h *ScoreHandler) HandleColor(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	var xg float64
	p := newParams(r.URL.Query())
	p.required("xg")
	p.float("xg", &xg)
	if p.err == nil && (xg < 0 || xg > 1) {
		p.err = fmt.Errorf("%w: xg must be within [0, 1]", ErrBadRequest)
	}
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	c := colormap.ColorFor(xg)
	writeJSON(w, http.StatusOK, colorResponse{XG: xg, Color: c, CSS: c.String()})
}
