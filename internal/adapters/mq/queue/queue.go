// Package queue defines the contract for enqueuing and consuming scene inputs.
//
// Each animation loop owns one bounded in-memory queue. Producers never block:
// a full or closed queue rejects the input.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/aube/internal/domain/model"
	"github.com/okian/aube/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 256
	defaultBufferSize    = 256
	defaultName          = "inputs"
)

// Event represents the payload type flowing through the queue.
type Event = model.InputEvent

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event to the queue.
	// Returns false if the queue is full or closed and the event was not enqueued.
	Enqueue(ctx context.Context, e Event) bool

	// Dequeue returns a channel that will receive events as they become available.
	// The channel will be closed when the queue is closed or ctx is done.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued events.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	// After closing, no new events can be enqueued and the dequeue channel will be closed.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events     chan Event
	capacity   int
	bufferSize int
	name       string
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:   defaultQueueCapacity,
		bufferSize: defaultBufferSize,
		name:       defaultName,
	}

	for _, opt := range opts {
		opt(q)
	}

	// The channel never holds more than capacity events.
	if q.bufferSize < q.capacity {
		q.bufferSize = q.capacity
	}
	q.events = make(chan Event, q.bufferSize)

	metrics.UpdateQueueCapacity(q.name, q.capacity)
	metrics.UpdateQueueSize(q.name, 0)
	metrics.UpdateQueueUtilization(q.name, 0.0)

	return q
}

// Enqueue adds an event to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: Event is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.reject("closed")
		return false
	}

	if len(q.events) >= q.capacity {
		q.reject("capacity_exceeded")
		return false
	}

	select {
	case q.events <- e:
		metrics.RecordQueueEnqueue(q.name)
		q.observe()
		return true
	case <-ctx.Done():
		q.reject("context_cancelled")
		return false
	default:
		q.reject("queue_full")
		return false
	}
}

// Dequeue returns a channel that will receive events as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.events:
				if !ok {
					return
				}
				select {
				case out <- event:
					metrics.RecordQueueDequeue(q.name)
					q.observe()
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued events.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.observe()
	return len(q.events)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.events)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Name returns the metrics label of the queue.
func (q *InMemoryQueue) Name() string { return q.name }

func (q *InMemoryQueue) observe() {
	size := len(q.events)
	metrics.UpdateQueueSize(q.name, size)
	metrics.UpdateQueueUtilization(q.name, float64(size)/float64(q.capacity))
}

func (q *InMemoryQueue) reject(reason string) {
	metrics.RecordQueueEnqueueError(q.name, reason)
	metrics.RecordErrorByComponent("queue", reason)
}
