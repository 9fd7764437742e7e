package config_test

import (
	"testing"
	"time"

	"stack-scheduler/internal/config"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		t.Setenv("HDEV_API_KEY", "")
		t.Setenv("HDEV_BASE_URL", "")
		t.Setenv("REFRESH_CONCURRENCY", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("SERVER_PORT", "")
		logger := zerolog.Nop()

		Convey("When the provider key is missing", func() {
			_, err := config.Load(logger)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "HDEV_API_KEY")
			})
		})

		Convey("When only the provider key is set", func() {
			t.Setenv("HDEV_API_KEY", "secret")
			cfg, err := config.Load(logger)

			Convey("Then defaults are applied", func() {
				So(err, ShouldBeNil)
				So(cfg.HDevAPIKey, ShouldEqual, "secret")
				So(cfg.HDevBaseURL, ShouldEqual, "https://api.henrikdev.xyz")
				So(cfg.ServerPort, ShouldEqual, "3000")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.RefreshConcurrency, ShouldEqual, 4)
				So(cfg.UpstreamTimeout, ShouldEqual, 15*time.Second)
			})
		})

		Convey("When the base url has a trailing slash", func() {
			t.Setenv("HDEV_API_KEY", "secret")
			t.Setenv("HDEV_BASE_URL", "http://localhost:9999/")
			cfg, err := config.Load(logger)

			Convey("Then it is trimmed", func() {
				So(err, ShouldBeNil)
				So(cfg.HDevBaseURL, ShouldEqual, "http://localhost:9999")
			})
		})

		Convey("When refresh concurrency is not a positive integer", func() {
			t.Setenv("HDEV_API_KEY", "secret")
			t.Setenv("REFRESH_CONCURRENCY", "zero")
			_, err := config.Load(logger)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the log level is unknown", func() {
			t.Setenv("HDEV_API_KEY", "secret")
			t.Setenv("LOG_LEVEL", "chatty")
			_, err := config.Load(logger)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
