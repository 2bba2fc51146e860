package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/aube/internal/adapters/animation"
	"github.com/okian/aube/internal/adapters/http/api"
	"github.com/okian/aube/internal/adapters/http/site"
	"github.com/okian/aube/internal/adapters/http/swagger"
	"github.com/okian/aube/internal/adapters/llm"
	app "github.com/okian/aube/internal/app"
	"github.com/okian/aube/internal/config"
	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 40 * time.Second // covers one chat model call
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(context.Background())
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithOptions(logger.Options{Format: cfg.LogFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance); err != nil {
		loggerInstance.Error(ctx, "aube exited with error", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run starts the service and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc := newService(ctx, cfg, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "service shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return runErr
}

// newService builds the application service from configuration. The chat
// model is only wired when an API key is configured.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) *app.Service {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithFrameRate(cfg.FrameRate),
		app.WithInputQueueSize(cfg.InputQueueSize),
		app.WithDimensions(animation.Dimensions{
			HeroWidth:    cfg.HeroWidth,
			HeroHeight:   cfg.HeroHeight,
			ImpactWidth:  cfg.ImpactWidth,
			ImpactHeight: cfg.ImpactHeight,
			IconSize:     cfg.IconSize,
		}),
		app.WithSeed(cfg.RandomSeed),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxTopN(cfg.MaxTopN),
		app.WithChatTimeout(cfg.ChatTimeout()),
	}
	if model := newChatModel(ctx, cfg, log); model != nil {
		opts = append(opts, app.WithChatModel(model))
	}
	return app.New(opts...)
}

// newChatModel returns nil, keeping the assistant offline, when no API key is
// set or the client cannot be created.
func newChatModel(ctx context.Context, cfg *config.Config, log logger.Logger) assistant.Model {
	if cfg.GeminiAPIKey == "" {
		log.Info(ctx, "no gemini api key; assistant runs offline")
		return nil
	}
	g, err := llm.New(ctx, cfg.GeminiAPIKey,
		llm.WithModelName(cfg.GeminiModel),
		llm.WithTemperature(float32(cfg.ChatTemperature)),
		llm.WithBreaker(uint32(cfg.BreakerMaxRequests), cfg.BreakerInterval(), cfg.BreakerTimeout()), //nolint:gosec // validated > 0
		llm.WithLogger(log.Named("gemini")),
	)
	if err != nil {
		log.Warn(ctx, "gemini unavailable; assistant runs offline", logger.Error(err))
		return nil
	}
	log.Info(ctx, "assistant online", logger.String("model", g.Model()))
	return g
}

// newHandler registers every route and wraps the mux with the CORS policy.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	// API reference under /api-docs
	swagger.Register(ctx, mux)

	// Business API routes backed by the service.
	apiServer := api.NewServer(svc, svc, api.WithCORSOrigins(cfg.CORSOrigins))
	apiServer.Register(ctx, mux)

	// Front-end at /
	site.Register(ctx, mux)

	return apiServer.Handler(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the dataset and scene gauges.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	scenes, ok := stats["scenes"].(map[string]interface{})
	if !ok {
		return
	}
	for name, raw := range scenes {
		st, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if n, ok := st["particles"].(int); ok {
			metrics.UpdateSceneParticles(name, n)
		}
		if active, ok := st["active"].(bool); ok {
			metrics.UpdateSceneActive(name, active)
		}
	}
}
