package geometry_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/xgmap/internal/domain/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewFieldGeometry(t *testing.T) {
	Convey("Given pitch dimensions", t, func() {
		Convey("When the posts are ordered", func() {
			g, err := geometry.NewFieldGeometry(120, 80, 36, 44)

			Convey("Then the geometry matches the standard pitch", func() {
				So(err, ShouldBeNil)
				So(g, ShouldResemble, geometry.Standard())
				So(g.GoalWidth, ShouldEqual, 8)
				So(g.Center(), ShouldEqual, 40)
			})
		})

		Convey("When goal_y2 is not above goal_y1", func() {
			_, errEqual := geometry.NewFieldGeometry(120, 80, 40, 40)
			_, errSwapped := geometry.NewFieldGeometry(120, 80, 44, 36)

			Convey("Then construction is rejected", func() {
				So(errors.Is(errEqual, geometry.ErrInvalidGeometry), ShouldBeTrue)
				So(errors.Is(errSwapped, geometry.ErrInvalidGeometry), ShouldBeTrue)
			})
		})

		Convey("When the pitch size is not positive or not finite", func() {
			_, errLen := geometry.NewFieldGeometry(0, 80, 36, 44)
			_, errWidth := geometry.NewFieldGeometry(120, -1, 36, 44)
			_, errNaN := geometry.NewFieldGeometry(math.NaN(), 80, 36, 44)

			Convey("Then construction is rejected", func() {
				So(errors.Is(errLen, geometry.ErrInvalidGeometry), ShouldBeTrue)
				So(errors.Is(errWidth, geometry.ErrInvalidGeometry), ShouldBeTrue)
				So(errors.Is(errNaN, geometry.ErrInvalidGeometry), ShouldBeTrue)
			})
		})

		Convey("When a decoded geometry has an inconsistent goal width", func() {
			g := geometry.Standard()
			g.GoalWidth = 7.32

			Convey("Then Validate reports it", func() {
				So(errors.Is(g.Validate(), geometry.ErrInvalidGeometry), ShouldBeTrue)
			})
		})
	})
}

func TestShotAngle(t *testing.T) {
	g := geometry.Standard()

	Convey("Given the standard pitch", t, func() {
		Convey("When shooting from the penalty spot", func() {
			angle := geometry.ShotAngle(geometry.FieldPosition{X: 108, Y: 40}, g)

			Convey("Then the angle is 2*atan(4/12)", func() {
				So(angle, ShouldAlmostEqual, 2*math.Atan(4.0/12.0), 1e-12)
			})
		})

		Convey("When positions are mirrored across the goal mid-line", func() {
			Convey("Then the angle is symmetric", func() {
				for _, p := range []geometry.FieldPosition{
					{X: 90, Y: 20}, {X: 100, Y: 39.5}, {X: 119, Y: 0}, {X: 60, Y: 77}, {X: 130, Y: 10},
				} {
					So(geometry.ShotAngle(p, g), ShouldAlmostEqual, geometry.ShotAngle(g.Mirror(p), g), 1e-12)
				}
			})
		})

		Convey("When moving away from goal along the centre line", func() {
			Convey("Then the angle shrinks", func() {
				prev := math.Inf(1)
				for x := 119.0; x >= 0; x-- {
					a := geometry.ShotAngle(geometry.FieldPosition{X: x, Y: 40}, g)
					So(a, ShouldBeLessThan, prev)
					prev = a
				}
			})
		})

		Convey("When standing on the goal line", func() {
			inside := geometry.ShotAngle(geometry.FieldPosition{X: 120, Y: 40}, g)
			outside := geometry.ShotAngle(geometry.FieldPosition{X: 120, Y: 30}, g)
			onPost := geometry.ShotAngle(geometry.FieldPosition{X: 120, Y: 36}, g)

			Convey("Then the clamp keeps acos defined", func() {
				So(inside, ShouldAlmostEqual, math.Pi, 1e-6)
				So(outside, ShouldAlmostEqual, 0, 1e-6)
				So(math.IsNaN(onPost), ShouldBeFalse)
				So(onPost, ShouldAlmostEqual, math.Pi, 1e-12)
			})
		})

		Convey("When the position is far off the pitch", func() {
			a := geometry.ShotAngle(geometry.FieldPosition{X: -500, Y: 300}, g)

			Convey("Then a finite, small angle is returned", func() {
				So(math.IsNaN(a), ShouldBeFalse)
				So(a, ShouldBeGreaterThanOrEqualTo, 0)
				So(a, ShouldBeLessThan, 0.02)
			})
		})

		Convey("When the coordinates are large enough to overflow their squares", func() {
			far := geometry.ShotAngle(geometry.FieldPosition{X: -1e200, Y: 300}, g)
			farCentre := geometry.ShotAngle(geometry.FieldPosition{X: -1e160, Y: 40}, g)
			edge := geometry.ShotAngle(geometry.FieldPosition{X: -math.MaxFloat64, Y: math.MaxFloat64}, g)

			Convey("Then the angle still tends to zero", func() {
				So(far, ShouldAlmostEqual, 0, 1e-12)
				So(farCentre, ShouldAlmostEqual, 0, 1e-12)
				So(farCentre, ShouldBeLessThan, geometry.ShotAngle(geometry.FieldPosition{X: -500, Y: 40}, g))
				So(math.IsNaN(edge), ShouldBeFalse)
				So(edge, ShouldAlmostEqual, 0, 1e-12)
			})
		})
	})
}

func TestExtractFeatures(t *testing.T) {
	Convey("Given a shot location", t, func() {
		g := geometry.Standard()
		pos := geometry.FieldPosition{X: 102, Y: 33}

		Convey("Then the features carry the position and its angle", func() {
			f := geometry.ExtractFeatures(pos, g)
			So(f.X, ShouldEqual, 102)
			So(f.Y, ShouldEqual, 33)
			So(f.ShotAngle, ShouldEqual, geometry.ShotAngle(pos, g))
		})
	})
}
