package geometry

import "errors"

// ErrInvalidGeometry reports a FieldGeometry that cannot describe a pitch.
var ErrInvalidGeometry = errors.New("invalid field geometry")
