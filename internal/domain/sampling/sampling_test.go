package sampling_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/internal/domain/sampling"
	"github.com/okian/xgmap/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// reverseRunner runs rows last-to-first on separate goroutines.
type reverseRunner struct{}

func (reverseRunner) Run(ctx context.Context, rows int, fn func(ctx context.Context, row int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for row := rows - 1; row >= 0; row-- {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			if err := fn(ctx, row); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(row)
	}
	wg.Wait()
	return firstErr
}

func newGenerator(opts ...sampling.Option) *sampling.Generator {
	p, err := scoring.Lookup("illustrative")
	if err != nil {
		panic(err)
	}
	return sampling.NewGenerator(p.Scorer(), opts...)
}

func TestSteps(t *testing.T) {
	Convey("Given inclusive ranges", t, func() {
		Convey("When the span is an exact multiple of the step", func() {
			n, err := sampling.Steps("x", 60, 120, 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 61)
		})

		Convey("When float division lands just below an integer", func() {
			n, err := sampling.Steps("x", 0, 0.3, 0.1)

			Convey("Then the upper bound is still included", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 4)
			})
		})

		Convey("When from equals to", func() {
			n, err := sampling.Steps("x", 5, 5, 1)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)
		})

		Convey("When the configuration is invalid", func() {
			cases := []struct{ from, to, step float64 }{
				{0, 10, 0},
				{0, 10, -1},
				{10, 0, 1},
				{math.NaN(), 10, 1},
				{0, math.Inf(1), 1},
			}
			for _, c := range cases {
				_, err := sampling.Steps("x", c.from, c.to, c.step)
				So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)
			}
		})
	})
}

func TestDistanceSweep(t *testing.T) {
	Convey("Given a generator on the standard pitch", t, func() {
		gen := newGenerator()
		ctx := context.Background()

		Convey("When running the default distance sweep", func() {
			pts, err := gen.DistanceSweep(ctx, sampling.DefaultDistanceOptions(geometry.Standard()))

			Convey("Then it yields 61 records from distance 60 down to 0", func() {
				So(err, ShouldBeNil)
				So(len(pts), ShouldEqual, 61)
				So(pts[0].Distance, ShouldEqual, 60)
				So(pts[60].Distance, ShouldEqual, 0)
				for i, p := range pts {
					So(p.Distance, ShouldEqual, 60-float64(i))
					So(p.XG, ShouldBeGreaterThan, 0)
					So(p.XG, ShouldBeLessThan, 1)
				}
			})

			Convey("And xG rises as the distance shrinks", func() {
				for i := 1; i < len(pts); i++ {
					So(pts[i].XG, ShouldBeGreaterThanOrEqualTo, pts[i-1].XG)
				}
			})
		})

		Convey("When the step is zero", func() {
			o := sampling.DefaultDistanceOptions(geometry.Standard())
			o.Step = 0
			_, err := gen.DistanceSweep(ctx, o)

			Convey("Then ErrInvalidRange is returned", func() {
				So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := gen.DistanceSweep(cctx, sampling.DefaultDistanceOptions(geometry.Standard()))

			Convey("Then the cancellation is reported", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestAngleSweep(t *testing.T) {
	Convey("Given the default angle sweep", t, func() {
		gen := newGenerator()
		pts, err := gen.AngleSweep(context.Background(), sampling.DefaultAngleOptions(geometry.Standard()))

		Convey("Then it yields 41 records ordered by y", func() {
			So(err, ShouldBeNil)
			So(len(pts), ShouldEqual, 41)
		})

		Convey("Then the display angle is measured from the goal centre", func() {
			So(pts[20].Angle, ShouldEqual, 0)
			So(pts[0].Angle, ShouldAlmostEqual, math.Atan2(20, 30)*180/math.Pi, 1e-12)
			So(pts[0].Angle, ShouldAlmostEqual, pts[40].Angle, 1e-12)
		})

		Convey("Then xG peaks in front of goal and follows the y coefficient off centre", func() {
			So(pts[20].XG, ShouldBeGreaterThan, pts[0].XG)
			So(pts[20].XG, ShouldBeGreaterThan, pts[40].XG)
			So(pts[0].XG, ShouldBeGreaterThan, pts[40].XG)
		})
	})
}

func TestRandomScatter(t *testing.T) {
	Convey("Given a generator", t, func() {
		gen := newGenerator()
		ctx := context.Background()

		Convey("When drawing the default scatter", func() {
			pts, err := gen.RandomScatter(ctx, sampling.DefaultScatterOptions())

			Convey("Then it returns 50 points inside the box", func() {
				So(err, ShouldBeNil)
				So(len(pts), ShouldEqual, 50)
				for _, p := range pts {
					So(p.X, ShouldBeBetweenOrEqual, 60, 120)
					So(p.Y, ShouldBeBetweenOrEqual, 20, 60)
					So(p.XG, ShouldBeGreaterThan, 0)
					So(p.XG, ShouldBeLessThan, 1)
				}
			})
		})

		Convey("When drawing twice with the same seed", func() {
			o := sampling.DefaultScatterOptions()
			o.Seed = 42
			a, errA := gen.RandomScatter(ctx, o)
			b, errB := newGenerator(sampling.WithRunner(reverseRunner{})).RandomScatter(ctx, o)

			Convey("Then both samples are identical", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the count is zero", func() {
			o := sampling.DefaultScatterOptions()
			o.Count = 0
			pts, err := gen.RandomScatter(ctx, o)

			Convey("Then an empty sample is returned", func() {
				So(err, ShouldBeNil)
				So(pts, ShouldBeEmpty)
			})
		})

		Convey("When the count is negative or the box is inverted", func() {
			o := sampling.DefaultScatterOptions()
			o.Count = -1
			_, err := gen.RandomScatter(ctx, o)
			So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)

			o = sampling.DefaultScatterOptions()
			o.YFrom, o.YTo = 60, 20
			_, err = gen.RandomScatter(ctx, o)
			So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestHeatmapGrid(t *testing.T) {
	Convey("Given the default grid", t, func() {
		o := sampling.DefaultGridOptions(geometry.Standard())

		Convey("Then its size is 31 x 41", func() {
			n, err := o.Size()
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1271)
		})

		Convey("When rows are evaluated out of order", func() {
			seq, err := newGenerator().HeatmapGrid(context.Background(), o)
			So(err, ShouldBeNil)
			par, err := newGenerator(sampling.WithRunner(reverseRunner{})).HeatmapGrid(context.Background(), o)
			So(err, ShouldBeNil)

			Convey("Then output is row-major and matches the sequential run", func() {
				So(len(par), ShouldEqual, 1271)
				So(par, ShouldResemble, seq)
				So(par[0].X, ShouldEqual, 60)
				So(par[0].Y, ShouldEqual, 0)
				So(par[1].X, ShouldEqual, 60)
				So(par[1].Y, ShouldEqual, 2)
				So(par[41].X, ShouldEqual, 62)
				So(par[41].Y, ShouldEqual, 0)
				So(par[1270].X, ShouldEqual, 120)
				So(par[1270].Y, ShouldEqual, 80)
			})
		})

		Convey("When a step is negative", func() {
			o.YStep = -2
			_, err := newGenerator().HeatmapGrid(context.Background(), o)
			So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)
		})
	})
}

func TestScorePositions(t *testing.T) {
	Convey("Given more positions than fit one runner row", t, func() {
		positions := make([]geometry.FieldPosition, 2500)
		for i := range positions {
			positions[i] = geometry.FieldPosition{X: 60 + float64(i%60), Y: float64(i % 80)}
		}
		gen := newGenerator(sampling.WithRunner(reverseRunner{}))

		pts, err := gen.ScorePositions(context.Background(), positions)

		Convey("Then every position is scored in its original slot", func() {
			So(err, ShouldBeNil)
			So(len(pts), ShouldEqual, len(positions))
			for i, p := range pts {
				So(p.Position(), ShouldResemble, positions[i])
				So(p.XG, ShouldEqual, gen.Scorer().Score(positions[i]))
			}
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given xG values", t, func() {
		Convey("When summarizing an unsorted sample", func() {
			xs := []float64{0.3, 0.1, 0.2}
			s := sampling.Summarize(xs)

			Convey("Then the statistics are computed and the input is untouched", func() {
				So(s.Count, ShouldEqual, 3)
				So(s.Min, ShouldEqual, 0.1)
				So(s.Max, ShouldEqual, 0.3)
				So(s.Mean, ShouldAlmostEqual, 0.2, 1e-12)
				So(s.Median, ShouldEqual, 0.2)
				So(s.StdDev, ShouldAlmostEqual, 0.1, 1e-12)
				So(xs, ShouldResemble, []float64{0.3, 0.1, 0.2})
			})
		})

		Convey("When summarizing a single value", func() {
			s := sampling.Summarize([]float64{0.4})
			So(s.StdDev, ShouldEqual, 0)
			So(s.Median, ShouldEqual, 0.4)
		})

		Convey("When summarizing nothing", func() {
			So(sampling.Summarize(nil), ShouldResemble, sampling.Summary{})
		})

		Convey("When extracting xg from records", func() {
			xs := sampling.XGValues([]sampling.GridPoint{{X: 1, Y: 2, XG: 0.5}, {XG: 0.25}})
			So(xs, ShouldResemble, []float64{0.5, 0.25})
		})
	})
}
