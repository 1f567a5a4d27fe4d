package eventsource

import "errors"

var (
	// ErrNoShots is returned when a source holds no usable shot.
	ErrNoShots = errors.New("no valid shot data found")
	// ErrDecode reports a source that is not a JSON array of events.
	ErrDecode = errors.New("decode events")
	// ErrFetch reports a remote source that could not be downloaded.
	ErrFetch = errors.New("fetch events")
	// ErrSourceUnavailable is returned without contacting a host whose
	// recent fetches kept failing.
	ErrSourceUnavailable = errors.New("event source temporarily unavailable")
)

// StatusError is a non-200 response from a remote source.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "unexpected status code: " + httpStatusText(e.StatusCode)
}
