package eventsource

import (
	"net/http"
	"time"

	"github.com/okian/xgmap/pkg/logger"
)

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithRetry sets the first retry delay and the total time spent retrying a
// remote source.
func WithRetry(initial, maxElapsed time.Duration) Option {
	return func(l *Loader) {
		if initial > 0 {
			l.initialInterval = initial
		}
		if maxElapsed > 0 {
			l.maxElapsed = maxElapsed
		}
	}
}

// WithCircuitBreaker stops contacting a host for cooldown after failures
// consecutive failed loads from it. failures == 0 disables the breaker.
func WithCircuitBreaker(failures uint32, cooldown time.Duration) Option {
	return func(l *Loader) {
		l.breakerFailures = failures
		if cooldown > 0 {
			l.breakerCooldown = cooldown
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}
