package assistant

import (
	"time"

	"github.com/okian/aube/internal/domain/dedupe"
	"github.com/okian/aube/pkg/logger"
)

// Option configures an Assistant.
type Option func(*Assistant)

// WithModel switches the assistant online. A nil model keeps it offline.
func WithModel(m Model) Option {
	return func(a *Assistant) {
		a.model = m
	}
}

// WithDeduper sets the tracker used for client message ids.
func WithDeduper(d dedupe.Deduper) Option {
	return func(a *Assistant) {
		if d != nil {
			a.deduper = d
		}
	}
}

// WithTimeout bounds a single model call.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Assistant) {
		a.log = l
	}
}

// WithClock overrides the time source used for reply timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		if now != nil {
			a.now = now
		}
	}
}
