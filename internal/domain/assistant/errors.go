package assistant

import "errors"

// Sentinel kinds for assistant errors.
var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrInvalidHistory = errors.New("invalid chat history")
)
