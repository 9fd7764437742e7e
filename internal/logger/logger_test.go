package logger

import (
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApplyLevel(t *testing.T) {
	Convey("ApplyLevel sets the global level", t, func() {
		defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

		So(ApplyLevel("debug"), ShouldEqual, zerolog.DebugLevel)
		So(zerolog.GlobalLevel(), ShouldEqual, zerolog.DebugLevel)

		Convey("Unknown names fall back to info", func() {
			So(ApplyLevel("loud"), ShouldEqual, zerolog.InfoLevel)
			So(ApplyLevel(""), ShouldEqual, zerolog.InfoLevel)
		})
	})
}
