package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("Init with defaults succeeds", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("Unknown formats and levels are rejected", func() {
			So(Init(WithFormat("xml")), ShouldNotBeNil)
			So(Init(WithLevel("loud")), ShouldNotBeNil)
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)

		Convey("Records carry fields, the caller and the request id", func() {
			ctx := ContextWithRequestID(context.Background(), "req-1")
			Named("api").Info(ctx, "assessment created", Uint("id", 7), String("team", "13M"))

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
			So(rec["msg"], ShouldEqual, "assessment created")
			So(rec["component"], ShouldEqual, "api")
			So(rec["team"], ShouldEqual, "13M")
			So(rec["request_id"], ShouldEqual, "req-1")
			So(rec["source"], ShouldContainSubstring, "logger_test.go")
		})

		Convey("Debug is dropped until the level is lowered", func() {
			Get().Debug(context.Background(), "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(context.Background(), "shown")
			So(buf.String(), ShouldContainSubstring, "shown")
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestLoggerFile(t *testing.T) {
	Convey("Given a rotating log file", t, func() {
		path := filepath.Join(t.TempDir(), "devtrack.log")
		var console bytes.Buffer
		So(Init(WithOutput(&console), WithFile(path, 1, 1, 1)), ShouldBeNil)

		Get().Warn(context.Background(), "disk check", Bool("ok", true))
		So(Sync(), ShouldBeNil)

		data, err := os.ReadFile(path)
		So(err, ShouldBeNil)
		So(strings.Contains(string(data), "disk check"), ShouldBeTrue)
		So(console.String(), ShouldContainSubstring, "disk check")
	})
}
