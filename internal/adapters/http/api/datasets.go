package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/xgmap/internal/app"
)

const (
	defaultDatasetLimit = 20
	maxDatasetLimit     = 1000
)

// DatasetStore exposes stored sample sets.
type DatasetStore interface {
	Dataset(ctx context.Context, id string) (*service.Dataset, error)
	RecentDatasets(ctx context.Context, limit int) ([]service.DatasetInfo, error)
}

// DatasetsHandler serves previously generated sample sets.
type DatasetsHandler struct {
	store DatasetStore
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(store DatasetStore) *DatasetsHandler {
	return &DatasetsHandler{store: store}
}

type datasetList struct {
	Datasets []service.DatasetInfo `json:"datasets"`
}

// HandleList handles GET /v1/datasets?limit=N.
func (h *DatasetsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	limit := defaultDatasetLimit
	p := newParams(r.URL.Query())
	p.int("limit", &limit)
	if p.err == nil && (limit < 1 || limit > maxDatasetLimit) {
		p.err = fmt.Errorf("%w: limit must be within [1, %d]", ErrBadRequest, maxDatasetLimit)
	}
	if p.err != nil {
		writeDomainError(w, p.err)
		return
	}
	infos, err := h.store.RecentDatasets(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, datasetList{Datasets: infos})
}

// HandleGet handles GET /v1/datasets/{id}?format=json|csv.
func (h *DatasetsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ds, err := h.store.Dataset(r.Context(), r.PathValue("id"))
	writeDataset(w, r, ds, err)
}
