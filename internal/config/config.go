// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and AUBE_* env vars on top of the defaults.
// - Loading and validation errors wrap this package's sentinels.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// FrameRate is the target frames per second of every scene loop.
	FrameRate int `koanf:"frame_rate" validate:"gt=0,lte=240"`

	// InputQueueSize bounds the pending pointer/resize/visibility inputs per scene.
	InputQueueSize int `koanf:"input_queue_size" validate:"gt=0"`

	// Scene sizes used until a client reports its own.
	HeroWidth    int `koanf:"hero_width" validate:"gte=0"`
	HeroHeight   int `koanf:"hero_height" validate:"gte=0"`
	ImpactWidth  int `koanf:"impact_width" validate:"gte=0"`
	ImpactHeight int `koanf:"impact_height" validate:"gte=0"`
	IconSize     int `koanf:"icon_size" validate:"gte=0"`

	// RandomSeed seeds the particle generators; 0 seeds from the clock.
	RandomSeed int64 `koanf:"random_seed"`

	// DatasetPath overrides the embedded dataset when set.
	DatasetPath string `koanf:"dataset_path"`

	// MaxTopN caps GET /api/dashboard?top.
	MaxTopN int `koanf:"max_top_n" validate:"gt=0"`

	// DedupeSize bounds the remembered chat message ids.
	DedupeSize int `koanf:"dedupe_size"`

	// GeminiAPIKey enables the online assistant. Empty keeps it offline.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel names the chat model.
	GeminiModel string `koanf:"gemini_model" validate:"required"`

	// ChatTemperature is the sampling temperature of the chat model.
	ChatTemperature float64 `koanf:"chat_temperature" validate:"gte=0,lte=2"`

	// ChatTimeoutMS bounds one model call.
	ChatTimeoutMS int `koanf:"chat_timeout_ms" validate:"gt=0"`

	// Circuit breaker around the chat model.
	BreakerMaxRequests int `koanf:"breaker_max_requests" validate:"gt=0"`
	BreakerIntervalS   int `koanf:"breaker_interval_s" validate:"gte=0"`
	BreakerTimeoutS    int `koanf:"breaker_timeout_s" validate:"gt=0"`

	// CORSOrigins lists the origins allowed to call the API.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		FrameRate:          60,
		InputQueueSize:     256,
		HeroWidth:          1280,
		HeroHeight:         720,
		ImpactWidth:        1280,
		ImpactHeight:       480,
		IconSize:           160,
		MaxTopN:            15,
		DedupeSize:         10_000,
		GeminiModel:        "gemini-2.5-flash",
		ChatTemperature:    0.7,
		ChatTimeoutMS:      30_000,
		BreakerMaxRequests: 1,
		BreakerIntervalS:   60,
		BreakerTimeoutS:    30,
		CORSOrigins:        []string{"*"},
	}
}

// ChatTimeout returns ChatTimeoutMS as a duration.
func (c *Config) ChatTimeout() time.Duration {
	return time.Duration(c.ChatTimeoutMS) * time.Millisecond
}

// BreakerInterval returns BreakerIntervalS as a duration.
func (c *Config) BreakerInterval() time.Duration {
	return time.Duration(c.BreakerIntervalS) * time.Second
}

// BreakerTimeout returns BreakerTimeoutS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutS) * time.Second
}
