package service

import "errors"

var (
	// ErrLimitExceeded is returned when a request would produce more points
	// than the service allows.
	ErrLimitExceeded = errors.New("sample size limit exceeded")
	// ErrUnknownKind is returned for an unsupported sample set kind.
	ErrUnknownKind = errors.New("unknown sample kind")
	// ErrDatasetNotFound is returned when a dataset ID is not (or no longer)
	// stored.
	ErrDatasetNotFound = errors.New("dataset not found")
)
