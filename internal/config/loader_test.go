package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/aube/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars(t)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FrameRate, convey.ShouldEqual, 60)
				convey.So(cfg.MaxTopN, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_ADDR", ":8080")
			t.Setenv("AUBE_FRAME_RATE", "30")
			t.Setenv("AUBE_RANDOM_SEED", "42")
			t.Setenv("AUBE_GEMINI_API_KEY", "k-123")
			t.Setenv("AUBE_CORS_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.FrameRate, convey.ShouldEqual, 30)
				convey.So(cfg.RandomSeed, convey.ShouldEqual, 42)
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "k-123")
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			clearConfigEnvVars(t)
			path := writeConfig(t, `
# scene sizes
addr: ":9090"
frame_rate: 24
hero_width: 800
chat_temperature: 0.2
dataset_path: /srv/aube/dataset.yaml
`)
			t.Setenv("AUBE_CONFIG", path)
			t.Setenv("AUBE_FRAME_RATE", "48")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.FrameRate, convey.ShouldEqual, 48)
				convey.So(cfg.HeroWidth, convey.ShouldEqual, 800)
				convey.So(cfg.ChatTemperature, convey.ShouldEqual, 0.2)
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/srv/aube/dataset.yaml")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_CONFIG", writeConfig(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the address is empty", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_CONFIG", writeConfig(t, "addr: \"\"\n"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return validation error for empty addr", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the frame rate is not positive", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_FRAME_RATE", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log format is unknown", func() {
			clearConfigEnvVars(t)
			t.Setenv("AUBE_LOG_FORMAT", "xml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// clearConfigEnvVars unsets every AUBE_ variable for the duration of the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] != '=' {
				continue
			}
			if name := kv[:i]; len(name) > 5 && name[:5] == "AUBE_" {
				t.Setenv(name, "")
				_ = os.Unsetenv(name)
			}
			break
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aube.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
