// Package animation runs particle scenes on their own goroutines.
//
// A Loop exclusively owns a particles.Scene and its surface. Everything that
// changes a scene from the outside (pointer, resize, visibility) travels
// through the loop's bounded input queue and is applied between two frames.
package animation

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/aube/internal/adapters/mq/queue"
	"github.com/okian/aube/internal/adapters/render"
	"github.com/okian/aube/internal/domain/model"
	"github.com/okian/aube/internal/domain/particles"
	"github.com/okian/aube/pkg/logger"
	"github.com/okian/aube/pkg/metrics"
)

// DefaultFrameRate is the frames per second drawn when no option overrides it.
const DefaultFrameRate = 60

const (
	defaultFrameInterval = time.Second / DefaultFrameRate
	defaultQueueCapacity = 256
)

// Surface is a drawable that can also hand out a copy of its pixels.
type Surface interface {
	particles.Surface
	Snapshot() *image.RGBA
}

// State is a point-in-time description of a loop, safe to read from any goroutine.
type State struct {
	Name      string          `json:"name"`
	Mode      particles.Mode  `json:"mode"`
	Shape     particles.Shape `json:"shape,omitempty"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Particles int             `json:"particles"`
	Active    bool            `json:"active"`
	Frames    uint64          `json:"frames"`
	Running   bool            `json:"running"`
}

// Loop drives one scene at a fixed frame rate.
type Loop struct {
	name     string
	scene    *particles.Scene
	surface  Surface
	queue    queue.Queue
	interval time.Duration
	input    particles.FrameInput

	snapshots chan chan *image.RGBA

	// Shutdown control
	started  atomic.Bool
	stopped  atomic.Bool
	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	detachMu sync.Mutex
	detach   []func()

	state atomic.Pointer[State]

	logger logger.Logger
}

// NewLoop creates a loop for scene. Without WithSurface the loop draws on a
// canvas sized to the scene.
func NewLoop(name string, scene *particles.Scene, opts ...Option) *Loop {
	l := &Loop{
		name:      name,
		scene:     scene,
		interval:  defaultFrameInterval,
		snapshots: make(chan chan *image.RGBA),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("animation"),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.surface == nil {
		w, h := scene.Size()
		l.surface = render.NewCanvas(w, h)
	}
	if l.queue == nil {
		l.queue = queue.NewInMemoryQueue(
			queue.WithCapacity(defaultQueueCapacity),
			queue.WithName(name),
		)
	}

	l.publish(false)
	metrics.UpdateSceneParticles(name, scene.Len())
	return l
}

// Name returns the scene name.
func (l *Loop) Name() string { return l.name }

// Run draws frames until ctx is canceled or Shutdown is called. Either way the
// loop is torn down on return. It returns immediately if the loop already ran
// or was shut down.
func (l *Loop) Run(ctx context.Context) {
	if !l.started.CompareAndSwap(false, true) {
		return
	}
	defer close(l.done)
	// A canceled ctx tears the loop down like Shutdown does.
	defer l.teardown(context.WithoutCancel(ctx))

	// The queue forwarder must not outlive the loop.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputs := l.queue.Dequeue(ctx)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.publish(true)
	defer l.publish(false)
	l.logger.Debug(ctx, "loop started", logger.String("scene", l.name), logger.Duration("interval", l.interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.shutdown:
			return
		case ev, ok := <-inputs:
			if !ok {
				return
			}
			l.apply(ctx, ev)
		case reply := <-l.snapshots:
			reply <- l.surface.Snapshot()
		case <-ticker.C:
			l.frame()
		}
	}
}

// frame advances the scene one step.
func (l *Loop) frame() {
	start := time.Now()
	if !l.scene.Frame(l.surface, l.input) {
		metrics.RecordFrameSkipped(l.name)
		return
	}
	metrics.RecordFrame(l.name, float64(time.Since(start).Microseconds())/1000)
	l.publish(true)
}

// apply folds one input into the loop state.
func (l *Loop) apply(ctx context.Context, ev model.InputEvent) { //nolint:gocritic // hugeParam: events are values
	switch ev.Kind {
	case model.InputPointer:
		l.input.Pointer = ev.Pointer
	case model.InputVisibility:
		l.input.Active = ev.Active
		metrics.UpdateSceneActive(l.name, ev.Active)
	case model.InputResize:
		if err := l.scene.Resize(ev.Width, ev.Height); err != nil {
			l.logger.Error(ctx, "resize failed", logger.String("scene", l.name), logger.Error(err))
			metrics.RecordErrorByComponent("animation", "resize")
			return
		}
		l.surface.Resize(ev.Width, ev.Height)
		metrics.RecordSceneResize(l.name)
		metrics.UpdateSceneParticles(l.name, l.scene.Len())
	default:
		l.logger.Warn(ctx, "ignoring unknown input", logger.String("scene", l.name), logger.String("kind", string(ev.Kind)))
		return
	}
	metrics.RecordInputAccepted(l.name, string(ev.Kind))
	l.publish(true)
}

// publish stores a fresh State. Only the loop goroutine (or the constructor)
// calls it.
func (l *Loop) publish(running bool) {
	w, h := l.scene.Size()
	l.state.Store(&State{
		Name:      l.name,
		Mode:      l.scene.Mode(),
		Shape:     l.scene.Shape(),
		Width:     w,
		Height:    h,
		Particles: l.scene.Len(),
		Active:    l.input.Active,
		Frames:    l.scene.Frames(),
		Running:   running && !l.stopped.Load(),
	})
}

// State returns the latest published state.
func (l *Loop) State() State {
	return *l.state.Load()
}

// Send queues ev for the next inter-frame gap. It reports false, without
// touching the scene, when the loop is stopped or its queue is full.
func (l *Loop) Send(ctx context.Context, ev model.InputEvent) bool { //nolint:gocritic // hugeParam: events are values
	if l.stopped.Load() || !l.queue.Enqueue(ctx, ev) {
		metrics.RecordInputRejected(l.name, string(ev.Kind))
		return false
	}
	return true
}

// Pointer queues a pointer move.
func (l *Loop) Pointer(ctx context.Context, x, y float64) bool {
	return l.Send(ctx, model.PointerMoved(l.name, x, y))
}

// Resize queues a canvas resize.
func (l *Loop) Resize(ctx context.Context, width, height int) bool {
	return l.Send(ctx, model.Resized(l.name, width, height))
}

// SetActive queues a visibility change.
func (l *Loop) SetActive(ctx context.Context, active bool) bool {
	return l.Send(ctx, model.VisibilityChanged(l.name, active))
}

// Attach subscribes the loop to b. The subscription is removed when the loop
// stops, whether through Shutdown or a canceled Run context.
func (l *Loop) Attach(b *Beacon) {
	detach := b.Subscribe(func(visible bool) {
		l.SetActive(context.Background(), visible)
	})

	l.detachMu.Lock()
	defer l.detachMu.Unlock()
	if l.stopped.Load() {
		detach()
		return
	}
	l.detach = append(l.detach, detach)
}

// Snapshot asks the loop for a copy of its current frame.
func (l *Loop) Snapshot(ctx context.Context) (*image.RGBA, error) {
	if l.stopped.Load() {
		return nil, ErrStopped
	}
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	reply := make(chan *image.RGBA, 1)
	select {
	case l.snapshots <- reply:
	case <-l.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("snapshot %s: %w", l.name, ctx.Err())
	}

	select {
	case img := <-reply:
		return img, nil
	case <-l.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, fmt.Errorf("snapshot %s: %w", l.name, ctx.Err())
	}
}

// Shutdown stops the frame scheduler, closes the input queue and detaches
// every visibility subscription, then waits for the loop goroutine to exit.
// It is safe to call more than once and before Run.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.teardown(ctx)

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		l.logger.Warn(ctx, "shutdown timed out", logger.String("scene", l.name))
		return fmt.Errorf("shutdown %s timed out: %w", l.name, ctx.Err())
	}
}

// teardown marks the loop stopped, closes the input queue and detaches every
// visibility subscription. Both Shutdown and the end of Run go through it.
func (l *Loop) teardown(ctx context.Context) {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		close(l.shutdown)
		if err := l.queue.Close(); err != nil {
			l.logger.Error(ctx, "error closing queue", logger.String("scene", l.name), logger.Error(err))
		}

		l.detachMu.Lock()
		for _, detach := range l.detach {
			detach()
		}
		l.detach = nil
		l.detachMu.Unlock()

		// Never run: nothing to wait for.
		if l.started.CompareAndSwap(false, true) {
			close(l.done)
		}
	})
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} { return l.done }
