package sampling

import "github.com/okian/xgmap/internal/domain/geometry"

// Generator defaults that do not depend on pitch size.
const (
	DefaultStep           = 1.0
	DefaultGridStep       = 2.0
	DefaultAngleFixedX    = 90.0
	DefaultAngleYFrom     = 20.0
	DefaultAngleYTo       = 60.0
	DefaultReferenceDepth = 30.0
	DefaultScatterCount   = 50
	DefaultScatterXFrom   = 60.0
	DefaultScatterXTo     = 120.0
	DefaultScatterYFrom   = 20.0
	DefaultScatterYTo     = 60.0
)

// DistanceOptions configures DistanceSweep. X runs from From to To at Step
// with Y held at FixedY.
type DistanceOptions struct {
	From   float64
	To     float64
	Step   float64
	FixedY float64
}

// AngleOptions configures AngleSweep. Y runs from YFrom to YTo at Step with
// X held at FixedX.
type AngleOptions struct {
	FixedX         float64
	YFrom          float64
	YTo            float64
	Step           float64
	CenterY        float64
	ReferenceDepth float64
}

// ScatterOptions configures RandomScatter. Seed 0 picks a fresh seed.
type ScatterOptions struct {
	Count int
	XFrom float64
	XTo   float64
	YFrom float64
	YTo   float64
	Seed  int64
}

// GridOptions configures HeatmapGrid.
type GridOptions struct {
	XFrom float64
	XTo   float64
	YFrom float64
	YTo   float64
	XStep float64
	YStep float64
}

// DefaultDistanceOptions sweeps the attacking half along the centre line.
func DefaultDistanceOptions(g geometry.FieldGeometry) DistanceOptions {
	return DistanceOptions{
		From:   g.FieldLength / 2,
		To:     g.FieldLength,
		Step:   DefaultStep,
		FixedY: g.FieldWidth / 2,
	}
}

// DefaultAngleOptions sweeps across the pitch 30 units out from goal.
func DefaultAngleOptions(g geometry.FieldGeometry) AngleOptions {
	return AngleOptions{
		FixedX:         DefaultAngleFixedX,
		YFrom:          DefaultAngleYFrom,
		YTo:            DefaultAngleYTo,
		Step:           DefaultStep,
		CenterY:        g.Center(),
		ReferenceDepth: DefaultReferenceDepth,
	}
}

// DefaultScatterOptions draws 50 positions around the penalty area.
func DefaultScatterOptions() ScatterOptions {
	return ScatterOptions{
		Count: DefaultScatterCount,
		XFrom: DefaultScatterXFrom,
		XTo:   DefaultScatterXTo,
		YFrom: DefaultScatterYFrom,
		YTo:   DefaultScatterYTo,
	}
}

// DefaultGridOptions covers the attacking half at 2 unit resolution.
func DefaultGridOptions(g geometry.FieldGeometry) GridOptions {
	return GridOptions{
		XFrom: g.FieldLength / 2,
		XTo:   g.FieldLength,
		YFrom: 0,
		YTo:   g.FieldWidth,
		XStep: DefaultGridStep,
		YStep: DefaultGridStep,
	}
}

// Size returns how many cells the grid holds, or ErrInvalidRange.
func (o GridOptions) Size() (int, error) {
	nx, ny, err := o.dims()
	if err != nil {
		return 0, err
	}
	return nx * ny, nil
}

func (o GridOptions) dims() (nx, ny int, err error) {
	if nx, err = Steps("x", o.XFrom, o.XTo, o.XStep); err != nil {
		return 0, 0, err
	}
	if ny, err = Steps("y", o.YFrom, o.YTo, o.YStep); err != nil {
		return 0, 0, err
	}
	return nx, ny, nil
}
