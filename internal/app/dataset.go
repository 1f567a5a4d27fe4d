package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/xgmap/internal/domain/sampling"
)

// Sample set kinds.
const (
	KindDistance = "distance"
	KindAngle    = "angle"
	KindHeatmap  = "heatmap"
	KindScatter  = "scatter"
	KindEvents   = "events"
)

// Kinds lists every sample set kind.
func Kinds() []string {
	return []string{KindDistance, KindAngle, KindHeatmap, KindScatter, KindEvents}
}

// Dataset is a generated sample set with its description.
type Dataset struct {
	ID      string           `json:"id"`
	Kind    string           `json:"kind"`
	Preset  string           `json:"preset"`
	Count   int              `json:"count"`
	Columns []string         `json:"columns"`
	Summary sampling.Summary `json:"summary"`
	Created time.Time        `json:"created_at"`
	Points  sampling.Table   `json:"points"`
}

// Weight is the dataset's share of the store's point budget.
func (d *Dataset) Weight() int { return d.Count }

// DatasetInfo describes a stored dataset without its points.
type DatasetInfo struct {
	ID      string           `json:"id"`
	Kind    string           `json:"kind"`
	Preset  string           `json:"preset"`
	Count   int              `json:"count"`
	Summary sampling.Summary `json:"summary"`
	Created time.Time        `json:"created_at"`
}

// Info returns the dataset's description.
func (d *Dataset) Info() DatasetInfo {
	return DatasetInfo{
		ID:      d.ID,
		Kind:    d.Kind,
		Preset:  d.Preset,
		Count:   d.Count,
		Summary: d.Summary,
		Created: d.Created,
	}
}

func newDataset[T sampling.Record](kind, preset string, points []T) *Dataset {
	if points == nil {
		points = []T{}
	}
	records := sampling.Records[T](points)
	return &Dataset{
		ID:      uuid.NewString(),
		Kind:    kind,
		Preset:  preset,
		Count:   len(points),
		Columns: records.Columns(),
		Summary: sampling.Summarize(sampling.XGValues(points)),
		Created: time.Now().UTC(),
		Points:  records,
	}
}
