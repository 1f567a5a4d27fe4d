package sampling

import "errors"

var (
	// ErrInvalidRange reports a bad range, step or count in generator options.
	ErrInvalidRange = errors.New("invalid sampling range")
	// ErrEntropy reports that no random seed could be obtained from the OS.
	ErrEntropy = errors.New("cannot obtain entropy for random seed")
)
