package config

import "errors"

// Load and Validate wrap these, so callers can tell a missing or unreadable
// config file apart from settings the engine refuses to start with.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
