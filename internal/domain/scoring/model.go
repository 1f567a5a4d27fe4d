package scoring

import (
	"fmt"
	"math"
)

// Feature indexes into ModelParameters.Means and Scales.
const (
	FeatureX = iota
	FeatureY
	FeatureShotAngle
	featureCount
)

var featureNames = [featureCount]string{"x", "y", "shot_angle"}

// Coefficients are the fitted weights of the standardized features.
type Coefficients struct {
	X         float64 `json:"x" koanf:"x"`
	Y         float64 `json:"y" koanf:"y"`
	ShotAngle float64 `json:"shot_angle" koanf:"shot_angle"`
}

// ModelParameters is a previously fitted logistic regression over
// standardized (x, y, shot_angle). It is never mutated after construction.
type ModelParameters struct {
	Means        [featureCount]float64 `json:"means"`
	Scales       [featureCount]float64 `json:"scales"`
	Coefficients Coefficients          `json:"coefficients"`
	Intercept    float64               `json:"intercept"`
}

// NewModelParameters validates and returns a model. Every scale must be a
// positive finite number since it is used as a standard-deviation divisor.
func NewModelParameters(means, scales [3]float64, coef Coefficients, intercept float64) (ModelParameters, error) {
	m := ModelParameters{
		Means:        means,
		Scales:       scales,
		Coefficients: coef,
		Intercept:    intercept,
	}
	if err := m.Validate(); err != nil {
		return ModelParameters{}, err
	}
	return m, nil
}

// Validate reports the first invariant violation.
func (m ModelParameters) Validate() error {
	for i := range featureCount {
		if !isFinite(m.Means[i]) {
			return fmt.Errorf("%w: mean of %s is not finite", ErrInvalidModel, featureNames[i])
		}
		if !isFinite(m.Scales[i]) || m.Scales[i] <= 0 {
			return fmt.Errorf("%w: scale of %s must be positive, got %g", ErrInvalidModel, featureNames[i], m.Scales[i])
		}
	}
	for name, v := range map[string]float64{
		"coefficient x":          m.Coefficients.X,
		"coefficient y":          m.Coefficients.Y,
		"coefficient shot_angle": m.Coefficients.ShotAngle,
		"intercept":              m.Intercept,
	} {
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidModel, name)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
