package animation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/aube/internal/adapters/mq/queue"
	"github.com/okian/aube/internal/adapters/render"
	"github.com/okian/aube/internal/domain/particles"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Default stage configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	stageShutdownTimeout  = 10 * time.Second
)

// Scene names of the landing page.
const (
	SceneHero   = "hero"
	SceneImpact = "impact"
	SceneClock  = "clock"
	SceneGlobe  = "globe"
	SceneShield = "shield"
)

// Icon and background colours.
var (
	ImpactColor = particles.MustHex("#FDBA74")
	ClockColor  = particles.MustHex("#0077b6")
	GlobeColor  = particles.MustHex("#FF9348")
	ShieldColor = particles.MustHex("#FFD15C")
)

// ImpactCountModifier halves the impact background density.
const ImpactCountModifier = 0.5

// SceneSpec names a scene configuration.
type SceneSpec struct {
	Name  string
	Scene particles.SceneConfig
}

// Dimensions sizes the default scenes.
type Dimensions struct {
	HeroWidth, HeroHeight     int
	ImpactWidth, ImpactHeight int
	IconSize                  int
}

// DefaultScenes returns the hero field, the impact background and the three
// icon clouds.
func DefaultScenes(d Dimensions) []SceneSpec {
	impact, clock, globe, shield := ImpactColor, ClockColor, GlobeColor, ShieldColor
	return []SceneSpec{
		{Name: SceneHero, Scene: particles.SceneConfig{
			Mode: particles.ModeInteractive, Width: d.HeroWidth, Height: d.HeroHeight,
		}},
		{Name: SceneImpact, Scene: particles.SceneConfig{
			Mode: particles.ModeAmbient, Width: d.ImpactWidth, Height: d.ImpactHeight,
			CountModifier: ImpactCountModifier, Color: &impact,
		}},
		{Name: SceneClock, Scene: particles.SceneConfig{
			Mode: particles.ModeShape, Shape: particles.Clock, Width: d.IconSize, Height: d.IconSize, Color: &clock,
		}},
		{Name: SceneGlobe, Scene: particles.SceneConfig{
			Mode: particles.ModeShape, Shape: particles.Globe, Width: d.IconSize, Height: d.IconSize, Color: &globe,
		}},
		{Name: SceneShield, Scene: particles.SceneConfig{
			Mode: particles.ModeShape, Shape: particles.Shield, Width: d.IconSize, Height: d.IconSize, Color: &shield,
		}},
	}
}

// StageOption applies a configuration option to the Stage.
type StageOption func(*Stage)

// WithStageFrameRate sets the frame rate of every loop.
func WithStageFrameRate(fps int) StageOption {
	return func(s *Stage) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// WithInputQueueSize sets the input queue capacity of every loop.
func WithInputQueueSize(size int) StageOption {
	return func(s *Stage) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSeed makes particle generation reproducible. Zero seeds from the clock.
func WithSeed(seed int64) StageOption {
	return func(s *Stage) {
		s.seed = seed
	}
}

// WithViewportOptions sets the visibility rule used by icon beacons.
func WithViewportOptions(opts particles.ViewportOptions) StageOption {
	return func(s *Stage) {
		s.viewport = opts
	}
}

// WithStageLogger sets a custom logger for the stage.
func WithStageLogger(l logger.Logger) StageOption {
	return func(s *Stage) {
		if l != nil {
			s.logger = l
		}
	}
}

// Stage owns every animation loop of the landing page.
type Stage struct {
	loops   map[string]*Loop
	beacons map[string]*Beacon
	order   []string

	frameRate int
	queueSize int
	seed      int64
	viewport  particles.ViewportOptions

	// Shutdown control
	started  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewStage builds one loop per spec. Shape scenes get a visibility beacon.
func NewStage(specs []SceneSpec, opts ...StageOption) (*Stage, error) {
	s := &Stage{
		loops:     make(map[string]*Loop, len(specs)),
		beacons:   make(map[string]*Beacon),
		frameRate: DefaultFrameRate,
		queueSize: defaultQueueCapacity,
		viewport:  particles.DefaultViewportOptions(),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("stage"),
	}

	for _, opt := range opts {
		opt(s)
	}

	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	for i, spec := range specs {
		if _, dup := s.loops[spec.Name]; dup || spec.Name == "" {
			return nil, fmt.Errorf("scene %q: duplicate or empty name", spec.Name)
		}
		rng := rand.New(rand.NewSource(seed + int64(i))) //nolint:gosec // animation noise
		scene, err := particles.NewScene(rng, spec.Scene)
		if err != nil {
			return nil, fmt.Errorf("scene %q: %w", spec.Name, err)
		}
		w, h := scene.Size()
		loop := NewLoop(spec.Name, scene,
			WithFrameRate(s.frameRate),
			WithSurface(render.NewCanvas(w, h)),
			WithQueue(queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize), queue.WithName(spec.Name))),
			WithLogger(s.logger.Named(spec.Name)),
		)
		if spec.Scene.Mode == particles.ModeShape {
			b := NewBeacon(s.viewport)
			loop.Attach(b)
			s.beacons[spec.Name] = b
		}
		s.loops[spec.Name] = loop
		s.order = append(s.order, spec.Name)
	}

	return s, nil
}

// Start runs every loop on its own goroutine.
func (s *Stage) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	for _, name := range s.order {
		go s.loops[name].Run(ctx)
	}
	metrics.UpdateScenesRunning(len(s.order))

	go s.startMetricsUpdater(ctx)

	s.logger.Info(ctx, "stage started",
		logger.Int("scenes", len(s.order)),
		logger.Int("frame_rate", s.frameRate),
	)
}

// startMetricsUpdater publishes per-scene frame rates.
func (s *Stage) startMetricsUpdater(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	last := time.Now()
	frames := make(map[string]uint64, len(s.order))
	for _, name := range s.order {
		frames[name] = s.loops[name].State().Frames
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			for _, name := range s.order {
				f := s.loops[name].State().Frames
				if elapsed > 0 {
					metrics.UpdateSceneFPS(name, float64(f-frames[name])/elapsed)
				}
				frames[name] = f
			}
		}
	}
}

// Shutdown stops every loop concurrently and waits for them.
func (s *Stage) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, stageShutdownTimeout)
	defer cancel()

	s.stopOnce.Do(func() {
		close(s.shutdown)
	})

	var g errgroup.Group
	for _, name := range s.order {
		loop := s.loops[name]
		g.Go(func() error {
			return loop.Shutdown(ctx)
		})
	}
	err := g.Wait()

	if s.started.Load() {
		select {
		case <-s.done:
		case <-ctx.Done():
		}
	}
	metrics.UpdateScenesRunning(0)

	if err != nil {
		s.logger.Error(ctx, "stage shutdown incomplete", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "stage stopped")
	return nil
}

// Loop returns the loop of a scene.
func (s *Stage) Loop(name string) (*Loop, error) {
	l, ok := s.loops[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	return l, nil
}

// Beacon returns the visibility beacon of an icon scene.
func (s *Stage) Beacon(name string) (*Beacon, bool) {
	b, ok := s.beacons[name]
	return b, ok
}

// Names lists scenes in creation order.
func (s *Stage) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// States returns the state of every scene in creation order.
func (s *Stage) States() []State {
	out := make([]State, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.loops[name].State())
	}
	return out
}
