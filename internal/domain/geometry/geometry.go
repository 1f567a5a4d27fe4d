// Package geometry models the pitch and the shot-angle feature.
package geometry

import (
	"fmt"
	"math"
)

// Standard pitch dimensions in field units.
const (
	StandardFieldLength = 120
	StandardFieldWidth  = 80
	StandardGoalWidth   = 8
	StandardGoalY1      = 36
	StandardGoalY2      = 44

	goalWidthTolerance = 1e-9
)

// FieldPosition is a location on (or off) the pitch. X runs along the long
// axis from the own baseline (0) to the opponent goal line (FieldLength).
type FieldPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FieldGeometry describes the pitch and the goal mouth at x = FieldLength.
// Build it with NewFieldGeometry; the zero value is not valid.
type FieldGeometry struct {
	FieldLength float64 `json:"field_length"`
	FieldWidth  float64 `json:"field_width"`
	GoalWidth   float64 `json:"goal_width"`
	GoalY1      float64 `json:"goal_y1"`
	GoalY2      float64 `json:"goal_y2"`
}

// NewFieldGeometry validates and returns a pitch whose goal posts sit at
// goalY1 < goalY2. The goal width is derived from the posts.
func NewFieldGeometry(fieldLength, fieldWidth, goalY1, goalY2 float64) (FieldGeometry, error) {
	g := FieldGeometry{
		FieldLength: fieldLength,
		FieldWidth:  fieldWidth,
		GoalWidth:   goalY2 - goalY1,
		GoalY1:      goalY1,
		GoalY2:      goalY2,
	}
	if err := g.Validate(); err != nil {
		return FieldGeometry{}, err
	}
	return g, nil
}

// Standard returns the 120x80 pitch with posts at y=36 and y=44.
func Standard() FieldGeometry {
	return FieldGeometry{
		FieldLength: StandardFieldLength,
		FieldWidth:  StandardFieldWidth,
		GoalWidth:   StandardGoalWidth,
		GoalY1:      StandardGoalY1,
		GoalY2:      StandardGoalY2,
	}
}

// Validate checks the invariants NewFieldGeometry enforces. It is exported
// for geometries decoded from configuration.
func (g FieldGeometry) Validate() error {
	for name, v := range map[string]float64{
		"field_length": g.FieldLength,
		"field_width":  g.FieldWidth,
		"goal_width":   g.GoalWidth,
		"goal_y1":      g.GoalY1,
		"goal_y2":      g.GoalY2,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidGeometry, name)
		}
	}
	switch {
	case g.FieldLength <= 0:
		return fmt.Errorf("%w: field_length must be positive, got %g", ErrInvalidGeometry, g.FieldLength)
	case g.FieldWidth <= 0:
		return fmt.Errorf("%w: field_width must be positive, got %g", ErrInvalidGeometry, g.FieldWidth)
	case g.GoalY2 <= g.GoalY1:
		return fmt.Errorf("%w: goal_y2 (%g) must be greater than goal_y1 (%g)", ErrInvalidGeometry, g.GoalY2, g.GoalY1)
	case math.Abs((g.GoalY2-g.GoalY1)-g.GoalWidth) > goalWidthTolerance:
		return fmt.Errorf("%w: goal_width %g does not match posts %g..%g", ErrInvalidGeometry, g.GoalWidth, g.GoalY1, g.GoalY2)
	}
	return nil
}

// Center is the y coordinate of the goal's mid-line.
func (g FieldGeometry) Center() float64 {
	return (g.GoalY1 + g.GoalY2) / 2
}

// Mirror reflects pos across the goal's mid-line.
func (g FieldGeometry) Mirror(pos FieldPosition) FieldPosition {
	return FieldPosition{X: pos.X, Y: g.GoalY1 + g.GoalY2 - pos.Y}
}

// ShotAngle returns the angle in radians subtended by the goal mouth at pos,
// using the law of cosines over the distances to both posts.
//
// Distances are taken in units of the largest offset component, so squaring
// them cannot overflow for any finite pos. The cosine is clamped to [-1, 1]
// before acos: near the goal line the expression drifts outside the domain.
// A pos exactly on a post has no defined angle and yields pi, the angle of a
// shooter standing in the mouth.
func ShotAngle(pos FieldPosition, g FieldGeometry) float64 {
	dx := g.FieldLength - pos.X
	dy1 := g.GoalY1 - pos.Y
	dy2 := g.GoalY2 - pos.Y

	unit := math.Max(math.Abs(dx), math.Max(math.Abs(dy1), math.Abs(dy2)))
	d1 := math.Hypot(dx/unit, dy1/unit)
	d2 := math.Hypot(dx/unit, dy2/unit)
	if d1 == 0 || d2 == 0 {
		return math.Pi
	}
	w := g.GoalWidth / unit

	cosAngle := (d1*d1 + d2*d2 - w*w) / (2 * d1 * d2)
	return math.Acos(clamp(cosAngle, -1, 1))
}

// Features are the raw model inputs for one shot location.
type Features struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShotAngle float64 `json:"shot_angle"`
}

// ExtractFeatures computes the model inputs for pos.
func ExtractFeatures(pos FieldPosition, g FieldGeometry) Features {
	return Features{X: pos.X, Y: pos.Y, ShotAngle: ShotAngle(pos, g)}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
