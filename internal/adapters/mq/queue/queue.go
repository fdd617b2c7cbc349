// Package queue defines the contract for buffering records between the
// ingest surfaces and the aggregation workers.
package queue

import (
	"context"
	"sync"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

const defaultCapacity = 100000

// Record is the payload type flowing through the queue.
type Record = model.Record

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a record. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, r Record) bool

	// Dequeue returns a channel receiving records as they become
	// available. The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Record

	// Len returns the current number of buffered records.
	Len(ctx context.Context) int

	// Close stops the queue; no new records can be enqueued afterwards.
	Close() error

	// IsClosed reports whether the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	records  chan Record
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.records = make(chan Record, q.capacity)
	return q
}

// Enqueue adds a record to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Record) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return false
	}

	select {
	case q.records <- r:
		metrics.RecordQueueEnqueue()
		return true
	case <-ctx.Done():
		metrics.RecordQueueEnqueueError()
		return false
	default:
		// Queue full.
		metrics.RecordQueueEnqueueError()
		return false
	}
}

// Dequeue returns a channel that receives records in FIFO order.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Record {
	out := make(chan Record)
	go func() {
		defer close(out)
		for r := range q.records {
			select {
			case out <- r:
				metrics.RecordQueueDequeue()
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of buffered records.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.records)
}

// Cap returns the configured buffer capacity.
func (q *InMemoryQueue) Cap() int {
	return cap(q.records)
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.records)
	q.closed = true
	return nil
}

// IsClosed reports whether the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
