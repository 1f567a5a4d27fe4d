// Package sampling produces scored sample sets over a pitch: distance and
// angle sweeps, random scatters and heatmap grids.
package sampling

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/internal/domain/scoring"
)

// positionsPerRow bounds the work handed to the runner per call when
// scoring a flat list of positions.
const positionsPerRow = 1024

// Generator evaluates sample sets with a single scorer.
type Generator struct {
	scorer *scoring.Scorer
	runner Runner
}

// Option configures a Generator.
type Option func(*Generator)

// WithRunner replaces the sequential row runner, e.g. with a worker pool.
func WithRunner(r Runner) Option {
	return func(g *Generator) {
		if r != nil {
			g.runner = r
		}
	}
}

// NewGenerator returns a generator bound to scorer.
func NewGenerator(scorer *scoring.Scorer, opts ...Option) *Generator {
	g := &Generator{scorer: scorer, runner: Sequential{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Scorer returns the scorer the generator evaluates with.
func (g *Generator) Scorer() *scoring.Scorer { return g.scorer }

// DistanceSweep scores positions along a fixed Y line, ordered by
// increasing x. Distance is FieldLength - x.
func (g *Generator) DistanceSweep(ctx context.Context, o DistanceOptions) ([]DistancePoint, error) {
	n, err := Steps("x", o.From, o.To, o.Step)
	if err != nil {
		return nil, err
	}
	if !finite(o.FixedY) {
		return nil, fmt.Errorf("%w: fixed y must be finite", ErrInvalidRange)
	}
	length := g.scorer.Geometry().FieldLength
	out := make([]DistancePoint, n)
	err = g.runner.Run(ctx, n, func(_ context.Context, i int) error {
		x := o.From + float64(i)*o.Step
		out[i] = DistancePoint{
			Distance: length - x,
			XG:       g.scorer.Score(geometry.FieldPosition{X: x, Y: o.FixedY}),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AngleSweep scores positions across a fixed X line, ordered by increasing
// y. The reported angle is the horizontal offset from CenterY seen from
// ReferenceDepth units away, in degrees. It is a display value and is not
// the goal-mouth angle the model uses as a feature.
func (g *Generator) AngleSweep(ctx context.Context, o AngleOptions) ([]AnglePoint, error) {
	n, err := Steps("y", o.YFrom, o.YTo, o.Step)
	if err != nil {
		return nil, err
	}
	if !finite(o.FixedX) || !finite(o.CenterY) || !finite(o.ReferenceDepth) {
		return nil, fmt.Errorf("%w: fixed x, center y and reference depth must be finite", ErrInvalidRange)
	}
	out := make([]AnglePoint, n)
	err = g.runner.Run(ctx, n, func(_ context.Context, i int) error {
		y := o.YFrom + float64(i)*o.Step
		out[i] = AnglePoint{
			Angle: DisplayAngle(y, o.CenterY, o.ReferenceDepth),
			XG:    g.scorer.Score(geometry.FieldPosition{X: o.FixedX, Y: y}),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DisplayAngle is atan2(|y-centerY|, depth) in degrees.
func DisplayAngle(y, centerY, depth float64) float64 {
	return math.Atan2(math.Abs(y-centerY), depth) * 180 / math.Pi
}

// RandomScatter draws Count uniform positions in the given box and scores
// them. Draws happen on one goroutine so a fixed seed always yields the
// same sample.
func (g *Generator) RandomScatter(ctx context.Context, o ScatterOptions) ([]ScatterPoint, error) {
	if o.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidRange, o.Count)
	}
	if err := checkBounds("x", o.XFrom, o.XTo); err != nil {
		return nil, err
	}
	if err := checkBounds("y", o.YFrom, o.YTo); err != nil {
		return nil, err
	}
	seed := o.Seed
	if seed == 0 {
		var err error
		if seed, err = entropySeed(); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // sampling, not security
	positions := make([]geometry.FieldPosition, o.Count)
	for i := range positions {
		positions[i] = geometry.FieldPosition{
			X: o.XFrom + rng.Float64()*(o.XTo-o.XFrom),
			Y: o.YFrom + rng.Float64()*(o.YTo-o.YFrom),
		}
	}
	return g.ScorePositions(ctx, positions)
}

// ScorePositions scores an explicit list of positions, keeping their order.
func (g *Generator) ScorePositions(ctx context.Context, positions []geometry.FieldPosition) ([]ScatterPoint, error) {
	out := make([]ScatterPoint, len(positions))
	rows := (len(positions) + positionsPerRow - 1) / positionsPerRow
	err := g.runner.Run(ctx, rows, func(_ context.Context, row int) error {
		end := min((row+1)*positionsPerRow, len(positions))
		for i := row * positionsPerRow; i < end; i++ {
			p := positions[i]
			out[i] = ScatterPoint{X: p.X, Y: p.Y, XG: g.scorer.Score(p)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// HeatmapGrid scores every cell of the grid in row-major order: all y
// values for one x before moving to the next x. Rows may run concurrently.
func (g *Generator) HeatmapGrid(ctx context.Context, o GridOptions) ([]GridPoint, error) {
	nx, ny, err := o.dims()
	if err != nil {
		return nil, err
	}
	out := make([]GridPoint, nx*ny)
	err = g.runner.Run(ctx, nx, func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		x := o.XFrom + float64(i)*o.XStep
		row := out[i*ny : (i+1)*ny]
		for j := range row {
			y := o.YFrom + float64(j)*o.YStep
			row[j] = GridPoint{X: x, Y: y, XG: g.scorer.Score(geometry.FieldPosition{X: x, Y: y})}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func entropySeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEntropy, err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}
