package sampling

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the xg distribution of a sample set.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
}

// Summarize computes descriptive statistics over xgs. StdDev is the sample
// standard deviation and is 0 for fewer than two values. Median is the
// empirical 0.5 quantile.
func Summarize(xgs []float64) Summary {
	if len(xgs) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(xgs)
	slices.Sort(sorted)

	s := Summary{
		Count:  len(sorted),
		Min:    floats.Min(sorted),
		Max:    floats.Max(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}
