// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen record IDs so a redelivered record is applied at
// most once before it reaches the aggregation pipeline.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set. Used when a record was
	// marked seen but could not be enqueued (backpressure) and must stay
	// retryable.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded in-memory set. When the
// bound is reached the oldest recorded ID is evicted (FIFO) via a ring of
// insertion order. seen maps each ID to its ring slot so a slot left stale
// by Unrecord cannot evict an ID that was re-recorded into a newer slot.
// maxSize <= 0 means unbounded; unbounded IDs carry slot -1.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int
	order   []string
	head    int
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration
// options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	slot := -1
	if d.maxSize > 0 {
		if len(d.order) < d.maxSize {
			d.order = append(d.order, id)
			slot = len(d.order) - 1
		} else {
			// Ring is full: evict the slot's ID unless it was unrecorded
			// or re-recorded elsewhere since.
			if old, ok := d.seen[d.order[d.head]]; ok && old == d.head {
				delete(d.seen, d.order[d.head])
			}
			d.order[d.head] = id
			slot = d.head
			d.head = (d.head + 1) % len(d.order)
		}
	}
	d.seen[id] = slot
	return false
}

func (d *inMemoryDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// The ring keeps the stale slot until it is overwritten; eviction
	// compares slots, so it only costs one wasted eviction step.
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
