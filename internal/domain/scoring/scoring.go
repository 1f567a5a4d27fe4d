// Package scoring turns shot locations into expected-goals probabilities
// with a standardized logistic model.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/xgmap/internal/domain/geometry"
)

// Bounds keeping a probability strictly inside (0, 1) once exp saturates.
var (
	minXG = math.SmallestNonzeroFloat64
	maxXG = math.Nextafter(1, 0)
)

// Evaluation exposes the intermediate terms of one score.
type Evaluation struct {
	Features     geometry.Features `json:"features"`
	Standardized geometry.Features `json:"standardized"`
	LogOdds      float64           `json:"log_odds"`
	XG           float64           `json:"xg"`
}

// Scorer evaluates a fixed model on a fixed pitch. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	geometry geometry.FieldGeometry
	model    ModelParameters
}

// New validates the configuration and returns a Scorer. Configuration errors
// surface here so that Score itself is total.
func New(g geometry.FieldGeometry, m ModelParameters) (*Scorer, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("scorer: %w", err)
	}
	return &Scorer{geometry: g, model: m}, nil
}

// MustNew is New for configurations known to be valid, such as presets.
func MustNew(g geometry.FieldGeometry, m ModelParameters) *Scorer {
	s, err := New(g, m)
	if err != nil {
		panic(err)
	}
	return s
}

// Geometry returns the pitch the scorer was built with.
func (s *Scorer) Geometry() geometry.FieldGeometry { return s.geometry }

// Model returns the model the scorer was built with.
func (s *Scorer) Model() ModelParameters { return s.model }

// Score returns the xG of a shot from pos, in (0, 1).
func (s *Scorer) Score(pos geometry.FieldPosition) float64 {
	return s.Evaluate(pos).XG
}

// Evaluate scores pos and keeps the intermediate terms.
func (s *Scorer) Evaluate(pos geometry.FieldPosition) Evaluation {
	f := geometry.ExtractFeatures(pos, s.geometry)
	std := s.standardize(f)

	c := s.model.Coefficients
	logOdds := s.model.Intercept +
		c.X*std.X +
		c.Y*std.Y +
		c.ShotAngle*std.ShotAngle

	return Evaluation{
		Features:     f,
		Standardized: std,
		LogOdds:      logOdds,
		XG:           Sigmoid(logOdds),
	}
}

func (s *Scorer) standardize(f geometry.Features) geometry.Features {
	m := s.model
	return geometry.Features{
		X:         (f.X - m.Means[FeatureX]) / m.Scales[FeatureX],
		Y:         (f.Y - m.Means[FeatureY]) / m.Scales[FeatureY],
		ShotAngle: (f.ShotAngle - m.Means[FeatureShotAngle]) / m.Scales[FeatureShotAngle],
	}
}

// Sigmoid is the standard logistic function, held inside the open unit
// interval for every finite input.
func Sigmoid(logOdds float64) float64 {
	p := 1 / (1 + math.Exp(-logOdds))
	return math.Max(minXG, math.Min(maxXG, p))
}
