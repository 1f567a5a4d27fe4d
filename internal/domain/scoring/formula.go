package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Importance is the magnitude of one standardized coefficient.
type Importance struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// FeatureImportance ranks features by |coefficient|, largest first. Ties keep
// the x, y, shot_angle order.
func FeatureImportance(m ModelParameters) []Importance {
	out := []Importance{
		{Feature: featureNames[FeatureX], Weight: math.Abs(m.Coefficients.X)},
		{Feature: featureNames[FeatureY], Weight: math.Abs(m.Coefficients.Y)},
		{Feature: featureNames[FeatureShotAngle], Weight: math.Abs(m.Coefficients.ShotAngle)},
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Formula renders the model as the three-step recipe: standardize, combine
// into log-odds, squash into a probability.
func Formula(m ModelParameters) string {
	var b strings.Builder
	b.WriteString("1. standardize:\n")
	for i := range featureCount {
		fmt.Fprintf(&b, "   %s_std = (%s - %.3f) / %.3f\n", featureNames[i], featureNames[i], m.Means[i], m.Scales[i])
	}
	b.WriteString("2. log odds:\n")
	fmt.Fprintf(&b, "   log_odds = %.3f %s x_std %s y_std %s shot_angle_std\n",
		m.Intercept,
		signed(m.Coefficients.X),
		signed(m.Coefficients.Y),
		signed(m.Coefficients.ShotAngle),
	)
	b.WriteString("3. probability:\n")
	b.WriteString("   xG = 1 / (1 + e^(-log_odds))\n")
	return b.String()
}

func signed(v float64) string {
	if v < 0 {
		return fmt.Sprintf("- %.3f *", -v)
	}
	return fmt.Sprintf("+ %.3f *", v)
}
