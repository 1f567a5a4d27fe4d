package worker

import "errors"

// ErrPoolClosed is returned by Run after Shutdown has been called.
var ErrPoolClosed = errors.New("worker pool closed")
