// Package worker runs independent rows of a sample set on a bounded set of
// goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/xgmap/pkg/logger"
	"github.com/okian/xgmap/pkg/metrics"
)

// Pool bounds how many rows are evaluated at once across all callers of a
// single Run. It is safe for concurrent use.
type Pool struct {
	size   int
	name   string
	logger logger.Logger

	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
}

// NewPool creates a pool running at most workerCount rows per Run call.
// workerCount below 1 means runtime.NumCPU().
func NewPool(workerCount int, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		size: workerCount,
		name: "worker-pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the concurrency limit.
func (p *Pool) Size() int { return p.size }

// Run calls fn for every row in [0, rows). The first error cancels the
// remaining rows and is returned. A cancelled ctx stops scheduling new rows.
func (p *Pool) Run(ctx context.Context, rows int, fn func(ctx context.Context, row int) error) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	p.inflight.Add(1)
	p.mu.RUnlock()
	defer p.inflight.Done()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for row := 0; row < rows; row++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			start := time.Now()
			metrics.RecordWorkerRowStart()
			defer func() {
				metrics.RecordWorkerRowDone(float64(time.Since(start).Microseconds()) / 1000)
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, row)
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordErrorByComponent("worker", "row_error")
		p.logger.Debug(ctx, "row evaluation stopped", logger.Int("rows", rows), logger.Error(err))
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return ctx.Err()
}

// Shutdown rejects new runs and waits for in-flight ones to finish or for
// ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
