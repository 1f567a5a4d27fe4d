package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unknown log format")
			})
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat(FormatJSON)), ShouldBeNil)
		So(SetLevelString("info"), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging an info message with fields", func() {
			Get().Info(ctx, "scored", String("preset", "trained"), Float64("xg", 0.1), Error(errors.New("boom")))

			Convey("Then the record carries the fields and the caller", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "scored")
				So(rec["preset"], ShouldEqual, "trained")
				So(rec["xg"], ShouldEqual, 0.1)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When logging below the configured level", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Debug(ctx, "hidden")
			Get().Info(ctx, "hidden too")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the context carries request fields", func() {
			reqCtx := ContextWith(ctx, String("request_id", "r-1"))
			reqCtx = ContextWith(reqCtx, String("endpoint", "score"))
			Get().Info(reqCtx, "scored")

			Convey("Then every record made with it includes them", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["request_id"], ShouldEqual, "r-1")
				So(rec["endpoint"], ShouldEqual, "score")
				So(FieldsFrom(ctx), ShouldBeEmpty)
			})
		})

		Convey("When using a named logger with bound fields", func() {
			Named("sampling").With(String("kind", "heatmap")).Warn(ctx, "slow")

			Convey("Then the group and bound field appear", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"sampling"`)
				So(out, ShouldContainSubstring, `"heatmap"`)
			})
		})

		Reset(func() {
			SetLevel(slog.LevelInfo)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "WARNING", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}

		Convey("Then ParseLevel maps aliases", func() {
			lvl, err := ParseLevel("Warning")
			So(err, ShouldBeNil)
			So(lvl, ShouldEqual, slog.LevelWarn)
		})

		Convey("Then an unknown level is rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})

		Reset(func() {
			SetLevel(slog.LevelInfo)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then logging does not panic", func() {
			So(func() {
				l.Info(context.Background(), "ignored", Int("n", 1))
				l.Named("x").Error(context.Background(), "ignored")
			}, ShouldNotPanic)
		})
	})
}
