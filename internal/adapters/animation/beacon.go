package animation

import (
	"sync"

	"github.com/okian/aube/internal/domain/particles"
)

// Beacon turns viewport geometry into visibility notifications for one
// element. The first observation also applies the "already on screen" rule;
// later ones only the intersection rule. Subscribers are called when the
// visibility changes, outside the beacon's lock.
type Beacon struct {
	mu       sync.Mutex
	opts     particles.ViewportOptions
	subs     map[int]func(bool)
	next     int
	observed bool
	visible  bool
}

// NewBeacon creates a beacon using opts.
func NewBeacon(opts particles.ViewportOptions) *Beacon {
	return &Beacon{opts: opts, subs: make(map[int]func(bool))}
}

// Subscribe registers fn and returns the function that removes it.
// Calling the returned function more than once is harmless.
func (b *Beacon) Subscribe(fn func(visible bool)) (detach func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Observe evaluates element against viewport and notifies subscribers if the
// visibility changed. It returns the current visibility.
func (b *Beacon) Observe(element, viewport particles.Rect) bool {
	b.mu.Lock()
	visible := particles.Visible(element, viewport, b.opts)
	if !b.observed {
		visible = visible || particles.InitiallyVisible(element, viewport.Height, b.opts)
	}
	changed := !b.observed || visible != b.visible
	b.observed = true
	b.visible = visible

	var fns []func(bool)
	if changed {
		fns = make([]func(bool), 0, len(b.subs))
		for _, fn := range b.subs {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(visible)
	}
	return visible
}

// Visible returns the last observed visibility.
func (b *Beacon) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Subscribers returns the number of attached subscribers.
func (b *Beacon) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
