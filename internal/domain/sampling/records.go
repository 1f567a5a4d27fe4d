package sampling

import "github.com/okian/xgmap/internal/domain/geometry"

// Column names shared by record types.
const (
	ColumnDistance = "distance"
	ColumnAngle    = "angle"
	ColumnX        = "x"
	ColumnY        = "y"
	ColumnXG       = "xg"
)

// DistancePoint is one sample of a distance sweep. Distance is measured
// along the length of the pitch from the goal line.
type DistancePoint struct {
	Distance float64 `json:"distance"`
	XG       float64 `json:"xg"`
}

// Columns names the values returned by Values.
func (DistancePoint) Columns() []string { return []string{ColumnDistance, ColumnXG} }

// Values returns the record as a flat row.
func (p DistancePoint) Values() []float64 { return []float64{p.Distance, p.XG} }

// AnglePoint is one sample of an angle sweep. Angle is in degrees.
type AnglePoint struct {
	Angle float64 `json:"angle"`
	XG    float64 `json:"xg"`
}

func (AnglePoint) Columns() []string { return []string{ColumnAngle, ColumnXG} }

func (p AnglePoint) Values() []float64 { return []float64{p.Angle, p.XG} }

// ScatterPoint is a scored position, random or supplied by the caller.
type ScatterPoint struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	XG float64 `json:"xg"`
}

func (ScatterPoint) Columns() []string { return []string{ColumnX, ColumnY, ColumnXG} }

func (p ScatterPoint) Values() []float64 { return []float64{p.X, p.Y, p.XG} }

// Position returns the pitch position of the sample.
func (p ScatterPoint) Position() geometry.FieldPosition {
	return geometry.FieldPosition{X: p.X, Y: p.Y}
}

// GridPoint is one cell of a heatmap grid.
type GridPoint struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	XG float64 `json:"xg"`
}

func (GridPoint) Columns() []string { return []string{ColumnX, ColumnY, ColumnXG} }

func (p GridPoint) Values() []float64 { return []float64{p.X, p.Y, p.XG} }

// Record is implemented by every sample type.
type Record interface {
	Columns() []string
	Values() []float64
}

// Table is a sample set read row by row.
type Table interface {
	Columns() []string
	Len() int
	Row(i int) []float64
}

// Records is a sample set of one record type. Keeping the concrete slice
// stores each point inline rather than behind an interface.
type Records[T Record] []T

var _ Table = Records[GridPoint](nil)

// Columns names the values of every row.
func (r Records[T]) Columns() []string {
	var zero T
	return zero.Columns()
}

func (r Records[T]) Len() int { return len(r) }

func (r Records[T]) Row(i int) []float64 { return r[i].Values() }

// XGValues extracts the xg column from any slice of records.
func XGValues[T Record](records []T) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		v := r.Values()
		out[i] = v[len(v)-1]
	}
	return out
}
