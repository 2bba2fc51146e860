package particles

import "errors"

var (
	// ErrUnknownShape is returned for shape names outside clock, globe and shield.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrUnknownMode is returned for scene modes outside ambient, interactive and shape.
	ErrUnknownMode = errors.New("unknown scene mode")
	// ErrInvalidColor is returned when a colour literal cannot be parsed.
	ErrInvalidColor = errors.New("invalid colour")
)
