package service_test

import (
	"context"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	service "github.com/okian/xgmap/internal/app"
	"github.com/okian/xgmap/internal/config"
	"github.com/okian/xgmap/internal/domain/geometry"
	"github.com/okian/xgmap/internal/domain/sampling"
	"github.com/okian/xgmap/internal/domain/scoring"
	"github.com/okian/xgmap/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func startedService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(3))

		Convey("When it has not been started", func() {
			stats := svc.GetStats()

			Convey("Then stats report it as stopped", func() {
				So(stats["started"], ShouldBeFalse)
				So(stats["workerCount"], ShouldEqual, 3)
				So(stats["defaultPreset"], ShouldEqual, "trained")
			})
		})

		Convey("When starting and stopping", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			started := svc.GetStats()
			So(svc.Stop(ctx), ShouldBeNil)

			Convey("Then start is idempotent and stop clears the state", func() {
				So(started["started"], ShouldBeTrue)
				So(started["uptimeSeconds"], ShouldNotBeNil)
				So(svc.GetStats()["started"], ShouldBeFalse)
				So(svc.Stop(ctx), ShouldBeNil)
			})
		})

		Convey("When the default preset is unknown", func() {
			bad := service.New(service.WithDefaultPreset("nope"))
			err := bad.Start(context.Background())

			Convey("Then start fails", func() {
				So(errors.Is(err, scoring.ErrUnknownPreset), ShouldBeTrue)
			})
		})
	})
}

func TestService_FromConfig(t *testing.T) {
	Convey("Given a configuration", t, func() {
		cfg := config.New()
		cfg.Preset = scoring.PresetIllustrative
		cfg.WorkerCount = 5
		cfg.MaxScatterCount = 7
		cfg.HeatmapStep = 4

		svc := service.New(service.FromConfig(cfg)...)

		Convey("Then the service follows it", func() {
			stats := svc.GetStats()
			So(stats["defaultPreset"], ShouldEqual, "illustrative")
			So(stats["workerCount"], ShouldEqual, 5)
			So(stats["maxScatterCount"], ShouldEqual, 7)

			o, err := svc.HeatmapDefaults("")
			So(err, ShouldBeNil)
			So(o.XStep, ShouldEqual, 4)
			So(o.YStep, ShouldEqual, 4)
		})
	})
}

func TestService_Score(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When scoring the penalty spot with the default preset", func() {
			ev, err := svc.Score(ctx, "", geometry.FieldPosition{X: 108, Y: 40})

			Convey("Then the trained model is used and a colour is attached", func() {
				So(err, ShouldBeNil)
				So(ev.Preset, ShouldEqual, "trained")
				So(ev.XG, ShouldAlmostEqual, 0.0994668937117369, 1e-12)
				So(ev.Features.ShotAngle, ShouldAlmostEqual, 2*math.Atan(4.0/12.0), 1e-12)
				So(ev.CSS, ShouldEqual, ev.Color.String())
				So(ev.Color.B, ShouldEqual, 255)
			})
		})

		Convey("When the preset is unknown", func() {
			_, err := svc.Score(ctx, "made-up", geometry.FieldPosition{X: 100, Y: 40})

			Convey("Then ErrUnknownPreset is returned", func() {
				So(errors.Is(err, scoring.ErrUnknownPreset), ShouldBeTrue)
			})
		})

		Convey("When asking for the shot angle", func() {
			a, err := svc.ShotAngle("", geometry.FieldPosition{X: 108, Y: 40})

			Convey("Then both units are returned", func() {
				So(err, ShouldBeNil)
				So(a.Degrees, ShouldAlmostEqual, a.Radians*180/math.Pi, 1e-12)
			})
		})

		Convey("When asking for a model description", func() {
			m, err := svc.Model(scoring.PresetIllustrative)

			Convey("Then formula and importance are included", func() {
				So(err, ShouldBeNil)
				So(m.Formula, ShouldContainSubstring, "log_odds = -2")
				So(len(m.Importance), ShouldEqual, 3)
				So(m.Importance[0].Feature, ShouldEqual, "shot_angle")
			})
		})

		Convey("When listing presets and colours", func() {
			So(len(svc.Presets()), ShouldEqual, 2)
			So(svc.Color(1).String(), ShouldEqual, "rgba(0,0,255,0.7)")
		})
	})
}

func TestService_Series(t *testing.T) {
	Convey("Given a started service with a low parallel threshold", t, func() {
		svc := startedService(service.WithParallelThreshold(10), service.WithMaxGridPoints(2000), service.WithMaxScatterCount(100))
		defer func() { _ = svc.Stop(context.Background()) }()
		ctx := context.Background()

		Convey("When generating the default distance series", func() {
			o, err := svc.DistanceDefaults("")
			So(err, ShouldBeNil)
			ds, err := svc.DistanceSeries(ctx, "", o)

			Convey("Then the envelope describes 61 points", func() {
				So(err, ShouldBeNil)
				So(ds.Kind, ShouldEqual, service.KindDistance)
				So(ds.Preset, ShouldEqual, "trained")
				So(ds.Count, ShouldEqual, 61)
				So(ds.Columns, ShouldResemble, []string{"distance", "xg"})
				So(ds.Summary.Count, ShouldEqual, 61)
				_, err := uuid.Parse(ds.ID)
				So(err, ShouldBeNil)
				So(ds.Points.(sampling.Records[sampling.DistancePoint])[0].Distance, ShouldEqual, 60)
			})
		})

		Convey("When generating the default heatmap on the pool", func() {
			o, err := svc.HeatmapDefaults(scoring.PresetIllustrative)
			So(err, ShouldBeNil)
			ds, err := svc.HeatmapSeries(ctx, scoring.PresetIllustrative, o)
			So(err, ShouldBeNil)

			seq, err := sampling.NewGenerator(mustScorer(scoring.PresetIllustrative)).HeatmapGrid(ctx, o)
			So(err, ShouldBeNil)

			Convey("Then it matches a sequential run point for point", func() {
				So(ds.Count, ShouldEqual, 1271)
				grid, ok := ds.Points.(sampling.Records[sampling.GridPoint])
				So(ok, ShouldBeTrue)
				So([]sampling.GridPoint(grid), ShouldResemble, seq)
			})
		})

		Convey("When the heatmap exceeds the grid limit", func() {
			o, _ := svc.HeatmapDefaults("")
			o.XStep, o.YStep = 0.5, 0.5
			_, err := svc.HeatmapSeries(ctx, "", o)

			Convey("Then ErrLimitExceeded is returned", func() {
				So(errors.Is(err, service.ErrLimitExceeded), ShouldBeTrue)
			})
		})

		Convey("When the scatter exceeds its limit", func() {
			o := svc.ScatterDefaults()
			o.Count = 101
			_, err := svc.ScatterSeries(ctx, "", o)
			So(errors.Is(err, service.ErrLimitExceeded), ShouldBeTrue)
		})

		Convey("When generating a seeded scatter twice", func() {
			o := svc.ScatterDefaults()
			o.Seed = 7
			a, errA := svc.ScatterSeries(ctx, "", o)
			b, errB := svc.ScatterSeries(ctx, "", o)

			Convey("Then points match but ids differ", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Points, ShouldResemble, b.Points)
				So(a.ID, ShouldNotEqual, b.ID)
				So(a.Count, ShouldEqual, 50)
			})
		})

		Convey("When the angle sweep has a bad step", func() {
			o, _ := svc.AngleDefaults("")
			o.Step = 0
			_, err := svc.AngleSeries(ctx, "", o)
			So(errors.Is(err, sampling.ErrInvalidRange), ShouldBeTrue)
		})

		Convey("When scoring shots from an event file", func() {
			path := filepath.Join(t.TempDir(), "frames.json")
			So(os.WriteFile(path, []byte(`[{"event_uuid":"a","freeze_frame":[{"actor":true,"location":[108,40]}]}]`), 0o600), ShouldBeNil)
			ds, err := svc.EventsSeries(ctx, "", path)

			Convey("Then each shot becomes a scored point", func() {
				So(err, ShouldBeNil)
				So(ds.Kind, ShouldEqual, service.KindEvents)
				So(ds.Count, ShouldEqual, 1)
				So(ds.Points.(sampling.Records[sampling.ScatterPoint])[0].XG, ShouldAlmostEqual, 0.0994668937117369, 1e-12)
			})
		})

		Convey("When stats are read after some work", func() {
			_, _ = svc.Score(ctx, "", geometry.FieldPosition{X: 100, Y: 40})
			o, _ := svc.AngleDefaults("")
			_, _ = svc.AngleSeries(ctx, "", o)
			stats := svc.GetStats()

			Convey("Then counters reflect it", func() {
				So(stats["scores"], ShouldEqual, int64(1))
				So(stats["series"], ShouldEqual, int64(1))
				So(stats["points"], ShouldEqual, int64(41))
			})
		})
	})
}

func TestService_HeatmapPreset(t *testing.T) {
	Convey("Given a service with default presets", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When a heatmap names no preset", func() {
			o, err := svc.HeatmapDefaults("")
			So(err, ShouldBeNil)
			ds, err := svc.HeatmapSeries(ctx, "", o)

			Convey("Then the illustrative model draws it while other series stay on trained", func() {
				So(err, ShouldBeNil)
				So(ds.Preset, ShouldEqual, scoring.PresetIllustrative)
				d, _ := svc.DistanceDefaults("")
				dist, err := svc.DistanceSeries(ctx, "", d)
				So(err, ShouldBeNil)
				So(dist.Preset, ShouldEqual, scoring.PresetTrained)
			})
		})

		Convey("When a heatmap names a preset", func() {
			o, _ := svc.HeatmapDefaults(scoring.PresetTrained)
			ds, err := svc.HeatmapSeries(ctx, scoring.PresetTrained, o)

			Convey("Then that preset is used", func() {
				So(err, ShouldBeNil)
				So(ds.Preset, ShouldEqual, scoring.PresetTrained)
			})
		})
	})

	Convey("Given a service configured with a trained heatmap preset", t, func() {
		svc := service.New(service.WithHeatmapPreset(scoring.PresetTrained))
		o, _ := svc.HeatmapDefaults("")
		ds, err := svc.HeatmapSeries(context.Background(), "", o)

		Convey("Then unnamed heatmaps use it", func() {
			So(err, ShouldBeNil)
			So(ds.Preset, ShouldEqual, scoring.PresetTrained)
		})
	})

	Convey("Given an unknown heatmap preset", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()), service.WithHeatmapPreset("made-up"))

		Convey("Then Start fails", func() {
			So(svc.Start(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Datasets(t *testing.T) {
	Convey("Given a service keeping two datasets", t, func() {
		svc := service.New(service.WithDatasetCacheSize(2))
		ctx := context.Background()
		o, err := svc.DistanceDefaults("")
		So(err, ShouldBeNil)

		first, err := svc.DistanceSeries(ctx, "", o)
		So(err, ShouldBeNil)
		second, err := svc.ScatterSeries(ctx, "", sampling.ScatterOptions{Count: 3, XFrom: 60, XTo: 120, YFrom: 0, YTo: 80, Seed: 1})
		So(err, ShouldBeNil)

		Convey("When fetching one by ID", func() {
			ds, err := svc.Dataset(ctx, first.ID)

			Convey("Then the same sample set comes back", func() {
				So(err, ShouldBeNil)
				So(ds, ShouldEqual, first)
				So(ds.Created.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When listing recent datasets", func() {
			infos, err := svc.RecentDatasets(ctx, 10)

			Convey("Then they are described newest first", func() {
				So(err, ShouldBeNil)
				So(len(infos), ShouldEqual, 2)
				So(infos[0].ID, ShouldEqual, second.ID)
				So(infos[0].Kind, ShouldEqual, service.KindScatter)
				So(infos[1].Count, ShouldEqual, 61)
				So(svc.GetStats()["datasetsStored"], ShouldEqual, 2)
			})
		})

		Convey("When a third dataset pushes the first out", func() {
			_, err := svc.DistanceSeries(ctx, "", o)
			So(err, ShouldBeNil)
			_, err = svc.Dataset(ctx, first.ID)

			Convey("Then the first is no longer found", func() {
				So(errors.Is(err, service.ErrDatasetNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service keeping at most 100 points of datasets", t, func() {
		svc := service.New(service.WithDatasetCachePoints(100), service.WithMaxGridPoints(5000))
		ctx := context.Background()
		o, _ := svc.DistanceDefaults("")
		first, err := svc.DistanceSeries(ctx, "", o)
		So(err, ShouldBeNil)

		Convey("When another 61-point dataset is generated", func() {
			second, err := svc.DistanceSeries(ctx, "", o)
			So(err, ShouldBeNil)

			Convey("Then the older one is evicted to stay within the budget", func() {
				_, err := svc.Dataset(ctx, first.ID)
				So(errors.Is(err, service.ErrDatasetNotFound), ShouldBeTrue)
				_, err = svc.Dataset(ctx, second.ID)
				So(err, ShouldBeNil)
			})
		})

		Convey("When a dataset larger than the budget is generated", func() {
			grid, _ := svc.HeatmapDefaults("")
			big, err := svc.HeatmapSeries(ctx, "", grid)

			Convey("Then it is served but not kept, and nothing is evicted", func() {
				So(err, ShouldBeNil)
				So(big.Count, ShouldEqual, 1271)
				_, err := svc.Dataset(ctx, big.ID)
				So(errors.Is(err, service.ErrDatasetNotFound), ShouldBeTrue)
				_, err = svc.Dataset(ctx, first.ID)
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a service with the cache disabled", t, func() {
		svc := service.New(service.WithDatasetCacheSize(0))
		ctx := context.Background()
		o, _ := svc.DistanceDefaults("")
		ds, err := svc.DistanceSeries(ctx, "", o)
		So(err, ShouldBeNil)

		Convey("Then nothing is stored", func() {
			_, err := svc.Dataset(ctx, ds.ID)
			So(errors.Is(err, service.ErrDatasetNotFound), ShouldBeTrue)
			infos, err := svc.RecentDatasets(ctx, 5)
			So(err, ShouldBeNil)
			So(infos, ShouldBeEmpty)
		})
	})
}

func mustScorer(name string) *scoring.Scorer {
	p, err := scoring.Lookup(name)
	if err != nil {
		panic(err)
	}
	return p.Scorer()
}
