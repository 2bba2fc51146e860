// Package queue defines the contract for enqueuing and consuming scene inputs.
package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum capacity of the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithBufferSize sets the buffer size for the events channel.
func WithBufferSize(size int) Option {
	return func(q *InMemoryQueue) {
		if size > 0 {
			q.bufferSize = size
		}
	}
}

// WithName labels the queue in metrics.
func WithName(name string) Option {
	return func(q *InMemoryQueue) {
		if name != "" {
			q.name = name
		}
	}
}
