package api

import (
	"net/http"

	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/domain/colormap"
	"github.com/okian/xgmap/internal/domain/scoring"
)

const legendStops = 11

// ModelDependencies defines the model description operations.
type ModelDependencies interface {
	Model(preset string) (service.ModelInfo, error)
	Presets() []scoring.Preset
}

// ModelHandler describes the available models.
type ModelHandler struct {
	deps ModelDependencies
}

// NewModelHandler creates a new model handler.
func NewModelHandler(deps ModelDependencies) *ModelHandler {
	return &ModelHandler{deps: deps}
}

type modelResponse struct {
	service.ModelInfo
	Legend []colormap.Stop `json:"legend"`
}

// HandleModel handles GET /v1/model?preset= requests.
func (h *ModelHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	info, err := h.deps.Model(r.URL.Query().Get("preset"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modelResponse{ModelInfo: info, Legend: colormap.Legend(legendStops)})
}

type presetSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandlePresets handles GET /v1/presets requests.
func (h *ModelHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	presets := h.deps.Presets()
	out := make([]presetSummary, len(presets))
	for i, p := range presets {
		out[i] = presetSummary{Name: p.Name, Description: p.Description}
	}
	writeJSON(w, http.StatusOK, out)
}
