package service

import (
	"time"

	"github.com/okian/aube/internal/adapters/animation"
	"github.com/okian/aube/internal/adapters/repository"
	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore replaces the dataset store. Without it Start loads the embedded
// dataset, or the file set by WithDatasetPath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithDatasetPath loads the dataset from path.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithFrameRate sets the target frames per second of every scene.
func WithFrameRate(fps int) Option {
	return func(s *Service) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// WithInputQueueSize bounds the pending inputs per scene.
func WithInputQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inputQueueSize = size
		}
	}
}

// WithDimensions sets the initial scene sizes.
func WithDimensions(d animation.Dimensions) Option {
	return func(s *Service) {
		s.dims = d
	}
}

// WithSeed seeds the particle generators. 0 seeds from the clock.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithDedupeSize bounds the remembered chat message ids.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithMaxTopN caps the highlight list of the dashboard.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithChatModel switches the assistant online.
func WithChatModel(m assistant.Model) Option {
	return func(s *Service) {
		s.chatModel = m
	}
}

// WithChatTimeout bounds one model call.
func WithChatTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.chatTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
