// Package worker runs the aggregation workers that drain the record queues.
//
// Dispatch is key-affine: every record for one player hashes onto the same
// worker, so events for a single key are applied in arrival order while
// distinct keys proceed in parallel.
package worker

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pitchpulse/pitchpulse/internal/adapters/mq/queue"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/engine"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	drainPollInterval     = 10 * time.Millisecond
)

// Applier applies one record to the player state. Implemented by the
// aggregation engine.
type Applier interface {
	Apply(ctx context.Context, rec model.Record) (engine.Result, error)
}

// Worker drains a single queue, applying records in FIFO order.
type Worker struct {
	queue   queue.Queue
	applier Applier
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker over its own queue.
func NewWorker(q queue.Queue, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		applier:  applier,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = logger.Get().Named(w.name)
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	records := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case rec, ok := <-records:
			if !ok {
				return
			}
			w.process(ctx, rec)
		}
	}
}

func (w *Worker) process(ctx context.Context, rec queue.Record) {
	start := time.Now()
	_, err := w.applier.Apply(ctx, rec)
	metrics.RecordWorkerApplyLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "record application failed",
			logger.String("recordID", rec.RecordID),
			logger.Int64("playerID", rec.PlayerID),
			logger.Error(err),
		)
	}
}

// Pool owns one queue per worker and dispatches records by player key.
// It keeps exact dispatched/applied counts so Drain can account for a
// record in flight between a queue and its worker.
type Pool struct {
	workers  []*Worker
	queues   []*queue.InMemoryQueue
	capacity int

	dispatched atomic.Int64
	applied    atomic.Int64

	logger logger.Logger
}

// NewPool creates workerCount workers, each with a private FIFO queue of
// queueCapacity records.
func NewPool(workerCount, queueCapacity int, applier Applier) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queues:  make([]*queue.InMemoryQueue, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	counted := &countingApplier{inner: applier, applied: &p.applied}
	for i := 0; i < workerCount; i++ {
		p.queues[i] = queue.NewInMemoryQueue(queue.WithCapacity(queueCapacity))
		p.capacity += p.queues[i].Cap()
		p.workers[i] = NewWorker(p.queues[i], counted, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateQueueCapacity(p.capacity)
	return p
}

// countingApplier counts records whose application finished, successfully
// or not.
type countingApplier struct {
	inner   Applier
	applied *atomic.Int64
}

func (c *countingApplier) Apply(ctx context.Context, rec model.Record) (engine.Result, error) {
	res, err := c.inner.Apply(ctx, rec)
	c.applied.Add(1)
	return res, err
}

// Start starts all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Dispatch routes a record to the worker owning its player key. Returns
// false on backpressure.
func (p *Pool) Dispatch(ctx context.Context, rec model.Record) bool {
	q := p.queues[p.indexFor(rec.Key())]
	ok := q.Enqueue(ctx, rec)
	if ok {
		p.dispatched.Add(1)
		p.updateQueueMetrics(ctx)
	}
	return ok
}

func (p *Pool) indexFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(p.queues)
}

// Len returns the number of records buffered across all queues.
func (p *Pool) Len(ctx context.Context) int {
	total := 0
	for _, q := range p.queues {
		total += q.Len(ctx)
	}
	return total
}

func (p *Pool) updateQueueMetrics(ctx context.Context) {
	n := p.Len(ctx)
	metrics.UpdateQueueSize(n)
	if p.capacity > 0 {
		metrics.UpdateQueueUtilization(float64(n) / float64(p.capacity))
	}
}

// Drain blocks until every record accepted by Dispatch has finished
// applying, or ctx is done. Used before a match boundary so the fold
// observes all events received ahead of it. Queue length alone cannot tell:
// a record handed off to a worker but not yet applied is in neither Len nor
// the store, so the counts are compared instead.
func (p *Pool) Drain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for {
		if p.applied.Load() >= p.dispatched.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Shutdown closes the queues, lets workers finish the buffered records and
// waits for them to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	for _, q := range p.queues {
		_ = q.Close()
	}

	deadline := time.After(workerShutdownTimeout)
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-deadline:
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker", i))
		case <-ctx.Done():
			return fmt.Errorf("shutdown interrupted: %w", ctx.Err())
		}
	}
	return nil
}
