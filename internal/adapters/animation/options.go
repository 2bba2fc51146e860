package animation

import (
	"time"

	"github.com/okian/aube/internal/adapters/mq/queue"
	"github.com/okian/aube/pkg/logger"
)

// Option applies a configuration option to a Loop.
type Option func(*Loop)

// WithFrameRate sets the number of frames drawn per second.
func WithFrameRate(fps int) Option {
	return func(l *Loop) {
		if fps > 0 {
			l.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithQueue replaces the loop's input queue.
func WithQueue(q queue.Queue) Option {
	return func(l *Loop) {
		if q != nil {
			l.queue = q
		}
	}
}

// WithSurface sets the surface frames are drawn on.
func WithSurface(s Surface) Option {
	return func(l *Loop) {
		if s != nil {
			l.surface = s
		}
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(logger logger.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}
