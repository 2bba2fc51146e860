package animation

import "errors"

// Sentinel kinds for animation errors.
var (
	ErrStopped      = errors.New("animation loop stopped")
	ErrUnknownScene = errors.New("unknown scene")
	ErrNotStarted   = errors.New("stage not started")
)
