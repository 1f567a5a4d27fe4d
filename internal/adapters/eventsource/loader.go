// Package eventsource reads shot locations from StatsBomb 360 frame files,
// directories of them, or HTTP URLs.
package eventsource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/okian/xgmap/internal/domain/dedupe"
	"github.com/okian/xgmap/pkg/logger"
	"github.com/okian/xgmap/pkg/metrics"
)

const (
	defaultHTTPTimeout     = 30 * time.Second
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxElapsed      = 30 * time.Second
	defaultBreakerFailures = 3
	defaultBreakerCooldown = time.Minute

	SourceFile = "file"
	SourceURL  = "url"
)

// Loader resolves a source string into shots.
type Loader struct {
	client          *http.Client
	initialInterval time.Duration
	maxElapsed      time.Duration
	logger          logger.Logger

	breakerFailures uint32
	breakerCooldown time.Duration
	breakersMu      sync.Mutex
	breakers        map[string]*gobreaker.CircuitBreaker // by host
}

// NewLoader creates a loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:          &http.Client{Timeout: defaultHTTPTimeout},
		initialInterval: defaultInitialInterval,
		maxElapsed:      defaultMaxElapsed,
		breakerFailures: defaultBreakerFailures,
		breakerCooldown: defaultBreakerCooldown,
		breakers:        make(map[string]*gobreaker.CircuitBreaker),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("eventsource")
	}
	return l
}

// Load reads shots from src: an http(s) URL, a directory of *.json files or
// a single file. Unreadable files inside a directory are logged and skipped,
// and a shot whose event UUID was already loaded is dropped. ErrNoShots is
// returned when nothing usable was found.
func (l *Loader) Load(ctx context.Context, src string) ([]Shot, error) {
	var (
		shots  []Shot
		source = SourceFile
		err    error
	)
	switch {
	case isURL(src):
		source = SourceURL
		shots, err = l.fetchGuarded(ctx, src)
	default:
		var info os.FileInfo
		if info, err = os.Stat(src); err != nil {
			return nil, fmt.Errorf("open events: %w", err)
		}
		if info.IsDir() {
			shots, err = l.readDir(ctx, src)
		} else {
			shots, err = readFile(src)
		}
	}
	if err != nil {
		metrics.RecordErrorByComponent("eventsource", source)
		return nil, err
	}
	shots, dropped := unique(shots)
	if len(shots) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoShots, src)
	}

	metrics.RecordEventsLoaded(source, len(shots))
	l.logger.Info(ctx, "shots loaded",
		logger.String("source", src),
		logger.Int("count", len(shots)),
		logger.Int("duplicates", dropped),
	)
	return shots, nil
}

// unique drops shots whose event UUID appeared earlier. Shots without a
// UUID are kept.
func unique(shots []Shot) ([]Shot, int) {
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	out := shots[:0]
	for _, s := range shots {
		if seen.SeenAndRecord(s.EventUUID) {
			continue
		}
		out = append(out, s)
	}
	return out, len(shots) - len(out)
}

func (l *Loader) readDir(ctx context.Context, dir string) ([]Shot, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	sort.Strings(files)

	var all []Shot
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		shots, err := readFile(f)
		if err != nil {
			l.logger.Warn(ctx, "skipping event file", logger.String("file", f), logger.Error(err))
			continue
		}
		all = append(all, shots...)
	}
	return all, nil
}

func readFile(path string) ([]Shot, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer func() { _ = f.Close() }()

	shots, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return shots, nil
}

// fetchGuarded runs fetch behind the circuit breaker of src's host.
func (l *Loader) fetchGuarded(ctx context.Context, src string) ([]Shot, error) {
	cb := l.breaker(src)
	if cb == nil {
		return l.fetch(ctx, src)
	}
	out, err := cb.Execute(func() (interface{}, error) {
		return l.fetch(ctx, src)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src, err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]Shot), nil
}

func (l *Loader) breaker(src string) *gobreaker.CircuitBreaker {
	if l.breakerFailures == 0 {
		return nil
	}
	host := src
	if u, err := url.Parse(src); err == nil {
		host = u.Host
	}

	l.breakersMu.Lock()
	defer l.breakersMu.Unlock()
	if cb, ok := l.breakers[host]; ok {
		return cb
	}
	failures := l.breakerFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "eventsource:" + host,
		Timeout: l.breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: upstreamHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.logger.Warn(context.Background(), "event source breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	l.breakers[host] = cb
	return cb
}

// upstreamHealthy reports whether err says nothing about the host's health:
// success, undecodable content, or a client error other than 429.
func upstreamHealthy(err error) bool {
	if err == nil || errors.Is(err, ErrDecode) || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code < http.StatusInternalServerError && code != http.StatusTooManyRequests
	}
	return false
}

// fetch downloads src, retrying transport errors and 5xx/429 responses with
// exponential backoff. Other statuses fail immediately.
func (l *Loader) fetch(ctx context.Context, src string) ([]Shot, error) {
	var shots []Shot
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, http.NoBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			statusErr := &StatusError{StatusCode: resp.StatusCode}
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		parsed, err := Parse(resp.Body)
		if err != nil {
			return backoff.Permanent(err)
		}
		shots = parsed
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.InitialInterval = l.initialInterval
	strategy.MaxElapsedTime = l.maxElapsed

	notify := func(err error, wait time.Duration) {
		metrics.RecordEventFetchRetry()
		l.logger.Warn(ctx, "retrying event fetch",
			logger.String("url", src),
			logger.String("wait", wait.String()),
			logger.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify); err != nil {
		if errors.Is(err, ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return shots, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func httpStatusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
