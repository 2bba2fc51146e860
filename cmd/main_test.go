package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/aube/internal/config"
	"github.com/okian/aube/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.FrameRate = 120
	cfg.HeroWidth, cfg.HeroHeight = 120, 80
	cfg.ImpactWidth, cfg.ImpactHeight = 120, 60
	cfg.IconSize = 40
	cfg.RandomSeed = 7
	cfg.CORSOrigins = []string{"https://aube.example"}
	return cfg
}

func TestNewService(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := testConfig()
		log := logger.Get()

		convey.Convey("When no api key is configured", func() {
			convey.Convey("Then the chat model should stay unset", func() {
				convey.So(newChatModel(context.Background(), cfg, log), convey.ShouldBeNil)
			})
		})

		convey.Convey("When an api key is configured", func() {
			cfg.GeminiAPIKey = "test-key"

			convey.Convey("Then a gemini-backed model should be built", func() {
				convey.So(newChatModel(context.Background(), cfg, log), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the service is built and started", func() {
			ctx := context.Background()
			svc := newService(ctx, cfg, log)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(context.Background()) }()

			convey.Convey("Then it should report offline mode and the dataset", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["records"], convey.ShouldEqual, 15)
				convey.So(stats["assistant"], convey.ShouldEqual, "offline")
			})

			convey.Convey("And the service metrics updater should not panic", func() {
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the composed HTTP handler", t, func() {
		ctx := context.Background()
		cfg := testConfig()
		svc := newService(ctx, cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()

		h := newHandler(ctx, cfg, svc)
		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("GET", path, nil)
			req.Header.Set("Origin", "https://aube.example")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then the front-end should be served at /", func() {
			w := get("/")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldContainSubstring, "text/html")
		})

		convey.Convey("And the API should answer with CORS headers", func() {
			w := get("/api/dashboard")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "https://aube.example")
		})

		convey.Convey("And the docs and metrics should be reachable", func() {
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/healthz").Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And a frame should be rendered", func() {
			w := get("/api/scenes/hero/frame.png")
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "image/png")
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then updating system metrics should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the system updater should return when its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			convey.So(ctx.Err(), convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a configuration listening on a free port", t, func() {
		cfg := testConfig()
		cfg.Addr = "127.0.0.1:0"

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Get()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then run should shut down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})
}
