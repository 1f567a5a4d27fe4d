package sampling

import (
	"fmt"
	"math"
)

// rangeEpsilon absorbs float error so the upper bound is kept when
// (to-from)/step is integral in exact arithmetic.
const rangeEpsilon = 1e-9

// Steps returns how many values the inclusive range [from, to] holds at the
// given step. Values are from + i*step for i in [0, n).
func Steps(field string, from, to, step float64) (int, error) {
	switch {
	case !finite(from) || !finite(to) || !finite(step):
		return 0, fmt.Errorf("%w: %s bounds must be finite", ErrInvalidRange, field)
	case step <= 0:
		return 0, fmt.Errorf("%w: %s step must be positive, got %g", ErrInvalidRange, field, step)
	case to < from:
		return 0, fmt.Errorf("%w: %s upper bound %g is below lower bound %g", ErrInvalidRange, field, to, from)
	}
	n := math.Floor((to-from)/step+rangeEpsilon) + 1
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s range holds too many values", ErrInvalidRange, field)
	}
	return int(n), nil
}

func checkBounds(field string, from, to float64) error {
	if !finite(from) || !finite(to) {
		return fmt.Errorf("%w: %s bounds must be finite", ErrInvalidRange, field)
	}
	if to < from {
		return fmt.Errorf("%w: %s upper bound %g is below lower bound %g", ErrInvalidRange, field, to, from)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
