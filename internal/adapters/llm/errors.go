package llm

import "errors"

// Sentinel kinds for model adapter errors.
var (
	ErrMissingAPIKey   = errors.New("missing gemini api key")
	ErrChatUnavailable = errors.New("chat model unavailable")
)
