package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrUnknownScene = errors.New("unknown scene")
	ErrInvalidInput = errors.New("invalid input")
)
