package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidModel  = errors.New("invalid model parameters")
	ErrUnknownPreset = errors.New("unknown preset")
)
