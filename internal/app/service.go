// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/okian/aube/internal/adapters/animation"
	"github.com/okian/aube/internal/adapters/render"
	"github.com/okian/aube/internal/adapters/repository"
	"github.com/okian/aube/internal/domain/aggregate"
	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/internal/domain/dedupe"
	"github.com/okian/aube/internal/domain/particles"
	"github.com/okian/aube/internal/domain/tension"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
)

// Dashboard is the overview page: the computed summary plus the static
// indicators shown next to it.
type Dashboard struct {
	aggregate.Summary
	Indicators  tension.Indicators   `json:"indicators"`
	Sources     []tension.DataSource `json:"sources"`
	Departments []tension.Department `json:"departments"`
}

// ModelReport is the model comparison page.
type ModelReport struct {
	Metrics []tension.ModelMetric `json:"metrics"`
	Radar   []tension.RadarAxis   `json:"radar"`
}

// Service implements the API dependencies for the dashboard and the scenes.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	stage     *animation.Stage
	assistant *assistant.Assistant
	deduper   dedupe.Deduper
	chatModel assistant.Model

	// Configuration
	datasetPath    string
	frameRate      int
	inputQueueSize int
	dims           animation.Dimensions
	seed           int64
	dedupeSize     int
	maxTopN        int
	chatTimeout    time.Duration

	// State
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		frameRate:      animation.DefaultFrameRate,
		inputQueueSize: 256,
		dims: animation.Dimensions{
			HeroWidth: 1280, HeroHeight: 720,
			ImpactWidth: 1280, ImpactHeight: 480,
			IconSize: 160,
		},
		dedupeSize:  dedupe.DefaultMaxSize,
		maxTopN:     15,
		chatTimeout: assistant.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset, builds the assistant and starts the scene loops.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting aube service...")

	if s.store == nil {
		store, err := repository.NewStaticStore(repository.WithDatasetPath(s.datasetPath))
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		s.store = store
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.assistant = assistant.New(
		assistant.WithModel(s.chatModel),
		assistant.WithDeduper(s.deduper),
		assistant.WithTimeout(s.chatTimeout),
		assistant.WithLogger(s.logger.Named("assistant")),
	)

	stage, err := animation.NewStage(animation.DefaultScenes(s.dims),
		animation.WithStageFrameRate(s.frameRate),
		animation.WithInputQueueSize(s.inputQueueSize),
		animation.WithSeed(s.seed),
		animation.WithStageLogger(s.logger.Named("stage")),
	)
	if err != nil {
		return fmt.Errorf("build scenes: %w", err)
	}
	s.stage = stage
	s.stage.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "aube service started",
		logger.Int("records", s.store.Count(ctx)),
		logger.Int("scenes", len(stage.Names())),
		logger.Int("frameRate", s.frameRate),
		logger.String("assistant", string(s.assistant.Mode())),
	)
	return nil
}

// Stop shuts the scene loops down and waits for them.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping aube service...")
	err := s.stage.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "aube service stopped")
	return err
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Dashboard returns the overview with the top n records. n is clamped to
// [1, max top n]; 0 selects the default.
func (s *Service) Dashboard(ctx context.Context, n int) (Dashboard, error) {
	if err := s.ready(); err != nil {
		return Dashboard{}, err
	}
	if n > s.maxTopN {
		n = s.maxTopN
	}
	records := s.store.Records(ctx)
	sum, err := aggregate.Summarize(records, n)
	if err != nil {
		// Unknown trends are counted as stable; the overview is still usable.
		s.logger.Warn(ctx, "dataset has unknown trends", logger.Error(err))
	}
	return Dashboard{
		Summary:     sum,
		Indicators:  s.store.Indicators(ctx),
		Sources:     s.store.Sources(ctx),
		Departments: s.store.Departments(ctx),
	}, nil
}

// Predictions returns the filtered, sorted table.
func (s *Service) Predictions(ctx context.Context, q aggregate.Query) ([]tension.Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return aggregate.SortedFiltered(s.store.Records(ctx), q), nil
}

// Zones returns the employment zones in tension.
func (s *Service) Zones(ctx context.Context) ([]aggregate.ZoneAggregate, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return aggregate.ByZone(s.store.Records(ctx)), nil
}

// Models returns the model comparison.
func (s *Service) Models(ctx context.Context) (ModelReport, error) {
	if err := s.ready(); err != nil {
		return ModelReport{}, err
	}
	return ModelReport{Metrics: s.store.Metrics(ctx), Radar: s.store.Radar(ctx)}, nil
}

// Greeting returns the assistant's opening message.
func (s *Service) Greeting(context.Context) (assistant.Message, error) {
	if err := s.ready(); err != nil {
		return assistant.Message{}, err
	}
	return s.assistant.Greeting(), nil
}

// Ask forwards a chat request to the assistant.
func (s *Service) Ask(ctx context.Context, req assistant.Request) (assistant.Reply, error) {
	if err := s.ready(); err != nil {
		return assistant.Reply{}, err
	}
	return s.assistant.Ask(ctx, req)
}

// Scenes returns the state of every scene.
func (s *Service) Scenes(context.Context) ([]animation.State, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.stage.States(), nil
}

func (s *Service) loop(name string) (*animation.Loop, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	l, err := s.stage.Loop(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return l, nil
}

// Frame returns the last drawn frame of a scene.
func (s *Service) Frame(ctx context.Context, name string) (image.Image, error) {
	l, err := s.loop(name)
	if err != nil {
		return nil, err
	}
	return l.Snapshot(ctx)
}

// FramePNG returns the last drawn frame of a scene, PNG encoded.
func (s *Service) FramePNG(ctx context.Context, name string) ([]byte, error) {
	img, err := s.Frame(ctx, name)
	if err != nil {
		return nil, err
	}
	return render.PNG(img)
}

// Pointer forwards a pointer position. It returns false when the scene's
// input queue is full.
func (s *Service) Pointer(ctx context.Context, name string, x, y float64) (bool, error) {
	l, err := s.loop(name)
	if err != nil {
		return false, err
	}
	return l.Pointer(ctx, x, y), nil
}

// Resize changes a scene's size; its particles are regenerated between frames.
func (s *Service) Resize(ctx context.Context, name string, width, height int) (bool, error) {
	if width < 0 || height < 0 {
		return false, fmt.Errorf("%w: negative size %dx%d", ErrInvalidInput, width, height)
	}
	l, err := s.loop(name)
	if err != nil {
		return false, err
	}
	return l.Resize(ctx, width, height), nil
}

// Viewport reports the geometry of a scene's element. Icon scenes update
// their activation through their beacon; other scenes ignore it.
func (s *Service) Viewport(ctx context.Context, name string, element, viewport particles.Rect) (bool, error) {
	if _, err := s.loop(name); err != nil {
		return false, err
	}
	b, ok := s.stage.Beacon(name)
	if !ok {
		return true, nil
	}
	visible := b.Observe(element, viewport)
	s.logger.Debug(ctx, "viewport observed", logger.String("scene", name), logger.Bool("visible", visible))
	return visible, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"frameRate":      s.frameRate,
		"inputQueueSize": s.inputQueueSize,
		"dedupeSize":     s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	records := s.store.Records(ctx)
	critical := aggregate.CriticalCount(records)
	stats["records"] = len(records)
	stats["critical"] = critical
	stats["assistant"] = string(s.assistant.Mode())
	stats["chatIdsTracked"] = s.deduper.Size()
	stats["uptimeSeconds"] = int(time.Since(s.startedAt).Seconds())

	scenes := make(map[string]interface{})
	running := 0
	for _, st := range s.stage.States() {
		scenes[st.Name] = map[string]interface{}{
			"frames":    st.Frames,
			"particles": st.Particles,
			"active":    st.Active,
			"running":   st.Running,
		}
		if st.Running {
			running++
		}
	}
	stats["scenes"] = scenes

	metrics.UpdateDatasetRecords(len(records))
	metrics.UpdateDatasetCritical(critical)
	metrics.UpdateScenesRunning(running)
	return stats
}
