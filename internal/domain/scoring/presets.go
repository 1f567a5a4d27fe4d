package scoring

import (
	"fmt"
	"sort"

	"github.com/okian/xgmap/internal/domain/geometry"
)

// Preset names.
const (
	PresetTrained      = "trained"
	PresetIllustrative = "illustrative"
)

// Preset bundles a named pitch and model.
type Preset struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Geometry    geometry.FieldGeometry `json:"geometry"`
	Model       ModelParameters        `json:"model"`
}

// Scorer builds the preset's scorer. Presets are compile-time constants, so
// a failure here is a programming error.
func (p Preset) Scorer() *Scorer {
	return MustNew(p.Geometry, p.Model)
}

var presets = map[string]Preset{
	PresetTrained: {
		Name:        PresetTrained,
		Description: "coefficients fitted on StatsBomb 360 shot locations; drives the distance, angle and scatter plots",
		Geometry:    geometry.Standard(),
		Model: ModelParameters{
			Means:        [featureCount]float64{57.532, 39.899, 0.125},
			Scales:       [featureCount]float64{28.231, 22.958, 0.087},
			Coefficients: Coefficients{X: 0.006, Y: -0.002, ShotAngle: -0.003},
			Intercept:    -2.196,
		},
	},
	PresetIllustrative: {
		Name:        PresetIllustrative,
		Description: "hand-picked example coefficients with a strong angle effect; drives the pitch heatmap",
		Geometry:    geometry.Standard(),
		Model: ModelParameters{
			Means:        [featureCount]float64{60, 40, 0.5},
			Scales:       [featureCount]float64{30, 20, 0.2},
			Coefficients: Coefficients{X: 0.8, Y: -0.3, ShotAngle: 1.2},
			Intercept:    -2.0,
		},
	},
}

// Lookup returns the named preset.
func Lookup(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Presets lists every preset ordered by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
