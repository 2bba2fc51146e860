package llm

import (
	"time"

	"github.com/okian/aube/pkg/logger"
)

// Option configures a Gemini adapter.
type Option func(*Gemini)

// WithModelName sets the Gemini model.
func WithModelName(name string) Option {
	return func(g *Gemini) {
		if name != "" {
			g.model = name
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Gemini) {
		g.temperature = t
	}
}

// WithSystemInstruction replaces the default system instruction.
func WithSystemInstruction(s string) Option {
	return func(g *Gemini) {
		if s != "" {
			g.system = s
		}
	}
}

// WithBreaker tunes the circuit breaker around model calls. maxRequests is
// the probe budget while half-open; interval resets the closed-state counts;
// timeout is how long the breaker stays open.
func WithBreaker(maxRequests uint32, interval, timeout time.Duration) Option {
	return func(g *Gemini) {
		if maxRequests > 0 {
			g.breaker.MaxRequests = maxRequests
		}
		if interval > 0 {
			g.breaker.Interval = interval
		}
		if timeout > 0 {
			g.breaker.Timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gemini) {
		g.log = l
	}
}

// withGenerator replaces the Gemini client call; used by tests.
func withGenerator(fn generateFunc) Option {
	return func(g *Gemini) {
		g.generate = fn
	}
}
