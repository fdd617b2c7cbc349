package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pitchpulse/pitchpulse/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file or environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then defaults apply", func() {
			So(err, ShouldBeNil)
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9090")
			So(cfg.FeedAddr, ShouldEqual, ":6100")
			So(cfg.KafkaTopic, ShouldEqual, "match-events")
			So(cfg.KafkaBrokers, ShouldBeEmpty)
			So(cfg.QueueSize, ShouldEqual, 10_000)
			So(cfg.ShardCount, ShouldEqual, 16)
			So(cfg.MaxLeaderboardLimit, ShouldEqual, 100)
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.ExportPath, ShouldBeEmpty)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		t.Setenv("PITCHPULSE_ADDR", ":8088")
		t.Setenv("PITCHPULSE_LOG_LEVEL", "debug")
		t.Setenv("PITCHPULSE_QUEUE_SIZE", "123")
		t.Setenv("PITCHPULSE_EXPORT_PATH", "/tmp/pp.db")

		cfg, err := config.Load(context.Background())

		Convey("Then env values win over defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.QueueSize, ShouldEqual, 123)
			So(cfg.ExportPath, ShouldEqual, "/tmp/pp.db")

			Convey("And untouched keys keep their defaults", func() {
				So(cfg.FeedAddr, ShouldEqual, ":6100")
				So(cfg.ShardCount, ShouldEqual, 16)
			})
		})
	})
}

func TestLoadFileLayer(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")
		yaml := "addr: \":7001\"\nlog_level: warn\nworker_count: 3\nkafka_brokers:\n  - localhost:9092\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("PITCHPULSE_CONFIG", path)

		Convey("When loading with no env overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then file values layer over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7001")
				So(cfg.LogLevel, ShouldEqual, "warn")
				So(cfg.WorkerCount, ShouldEqual, 3)
				So(cfg.KafkaBrokers, ShouldResemble, []string{"localhost:9092"})
				So(cfg.FeedAddr, ShouldEqual, ":6100")
			})
		})

		Convey("When an env var overrides the file", func() {
			t.Setenv("PITCHPULSE_ADDR", ":7002")
			cfg, err := config.Load(context.Background())

			Convey("Then env wins over the file", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7002")
				So(cfg.LogLevel, ShouldEqual, "warn")
			})
		})
	})
}

func TestLoadValidationEmptyAddr(t *testing.T) {
	Convey("Given invalid configuration values", t, func() {
		Convey("When the address is emptied", func() {
			t.Setenv("PITCHPULSE_ADDR", "")

			_, err := config.Load(context.Background())

			Convey("Then loading fails validation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "addr")
			})
		})
	})
}

func TestLoadValidationWorkerCount(t *testing.T) {
	Convey("Given invalid configuration values", t, func() {
		Convey("When the worker count is not positive", func() {
			t.Setenv("PITCHPULSE_WORKER_COUNT", "0")

			_, err := config.Load(context.Background())

			Convey("Then loading fails validation", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "worker_count")
			})
		})
	})
}
