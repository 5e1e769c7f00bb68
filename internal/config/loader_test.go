package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file and no environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then defaults apply", func() {
			So(cfg.Addr, ShouldEqual, ":8090")
			So(cfg.Storage, ShouldEqual, "memory")
			So(cfg.CheckInLookback, ShouldEqual, 3)
			So(cfg.AssessmentLookback, ShouldEqual, 2)
			So(cfg.WorkerCount, ShouldEqual, 4)
			So(cfg.QueueSize, ShouldEqual, 1024)
		})
	})
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FELLOWTRACK_ADDR", ":9999")
	t.Setenv("FELLOWTRACK_LOG_LEVEL", "debug")
	t.Setenv("FELLOWTRACK_QUEUE_SIZE", "16")

	Convey("Given FELLOWTRACK_ environment overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then they win over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":9999")
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.QueueSize, ShouldEqual, 16)
		})
	})
}

func TestLoadFileLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\nworker_count: 2\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FELLOWTRACK_CONFIG", path)
	t.Setenv("FELLOWTRACK_ADDR", ":6060")

	Convey("Given a YAML file layered under the environment", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env beats file beats defaults", func() {
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.WorkerCount, ShouldEqual, 2)
			So(cfg.Storage, ShouldEqual, "memory")
		})
	})
}

func TestLoadValidation(t *testing.T) {
	t.Run("an unknown storage backend is rejected", func(t *testing.T) {
		t.Setenv("FELLOWTRACK_STORAGE", "etcd")
		_, err := config.Load(context.Background())
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("want ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("mysql storage demands a DSN", func(t *testing.T) {
		t.Setenv("FELLOWTRACK_STORAGE", "mysql")
		_, err := config.Load(context.Background())
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("want ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("a malformed program start date is rejected", func(t *testing.T) {
		t.Setenv("FELLOWTRACK_PROGRAM_START", "March 1st")
		_, err := config.Load(context.Background())
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Fatalf("want ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("a missing config file is a load error", func(t *testing.T) {
		t.Setenv("FELLOWTRACK_CONFIG", "/does/not/exist.yaml")
		_, err := config.Load(context.Background())
		if !errors.Is(err, config.ErrLoadConfig) {
			t.Fatalf("want ErrLoadConfig, got %v", err)
		}
	})
}
