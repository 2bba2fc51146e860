package repository

// Option applies a configuration option to the StaticStore.
type Option func(*StaticStore)

// WithDatasetPath loads the dataset from path instead of the embedded copy.
// An empty path keeps the embedded dataset.
func WithDatasetPath(path string) Option {
	return func(s *StaticStore) {
		s.path = path
	}
}
