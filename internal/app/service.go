// Package app provides the core service that wires the aggregation
// pipeline together and implements the dependencies of the HTTP API and
// the feed transports.
package app

import (
	"context"
	"runtime"
	"sync"

	"github.com/pitchpulse/pitchpulse/internal/adapters/feed"
	workerpool "github.com/pitchpulse/pitchpulse/internal/adapters/mq/worker"
	"github.com/pitchpulse/pitchpulse/internal/adapters/refdata"
	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
	"github.com/pitchpulse/pitchpulse/internal/domain/dedupe"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
	"github.com/pitchpulse/pitchpulse/internal/engine"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

// Exporter persists snapshots to an external sink. Implemented by the
// SQLite exporter; nil disables exporting.
type Exporter interface {
	Export(ctx context.Context, snaps []stats.Snapshot) error
}

// Service owns the aggregation pipeline: dedupe -> key-affine worker pool
// -> engine -> sharded state store.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	engine  *engine.Engine
	pool    *workerpool.Pool

	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	playersCSV  string
	teamsCSV    string
	exporter    Exporter

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithQueueSize bounds each worker's record queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithShardCount sets the number of state store shards.
func WithShardCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.shardCount = n
		}
	}
}

// WithReferenceData points the service at the players and teams CSV files
// seeded at startup. Empty paths skip seeding.
func WithReferenceData(playersCSV, teamsCSV string) Option {
	return func(s *Service) {
		s.playersCSV = playersCSV
		s.teamsCSV = teamsCSV
	}
}

// WithExporter sets the snapshot sink used at match boundaries and on
// shutdown.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  500_000,
		shardCount:  16,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.store = repository.NewShardedStore(repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.engine = engine.New(s.store, engine.WithLogger(s.logger.Named("engine")))
	s.pool = workerpool.NewPool(s.workerCount, s.queueSize, s.engine)
	s.pool.Start(ctx)

	if err := s.seedReferenceData(ctx); err != nil {
		return err
	}

	s.started = true
	s.logger.Info(ctx, "aggregation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("shards", s.shardCount),
	)
	return nil
}

func (s *Service) seedReferenceData(ctx context.Context) error {
	if s.playersCSV != "" {
		profiles, err := refdata.LoadPlayers(s.playersCSV)
		if err != nil {
			return err
		}
		seeded := s.store.Seed(ctx, profiles)
		s.logger.Info(ctx, "seeded player reference data", logger.Int("players", seeded))
	}
	if s.teamsCSV != "" {
		teams, err := refdata.LoadTeams(s.teamsCSV)
		if err != nil {
			return err
		}
		s.logger.Info(ctx, "loaded team reference data", logger.Int("teams", len(teams)))
	}
	return nil
}

// Stop drains the pipeline, exports a final set of snapshots and shuts the
// workers down.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.exportSnapshots(ctx)

	s.started = false
	s.logger.Info(ctx, "aggregation service stopped")
}

// Ingest accepts one raw record. Player events are deduplicated and routed
// to the worker owning their key; match-level records drain the pipeline
// and fold the current match.
func (s *Service) Ingest(ctx context.Context, rec model.Record) feed.IngestStatus {
	if rec.IsMatchRecord() {
		s.matchBoundary(ctx)
		return feed.IngestBoundary
	}

	if rec.RecordID != "" && s.deduper.SeenAndRecord(ctx, rec.RecordID) {
		metrics.RecordRecordDuplicate()
		return feed.IngestDuplicate
	}

	if !s.pool.Dispatch(ctx, rec) {
		// Keep the record retryable after backpressure.
		if rec.RecordID != "" {
			s.deduper.Unrecord(ctx, rec.RecordID)
		}
		return feed.IngestBackpressure
	}
	return feed.IngestAccepted
}

// matchBoundary waits for all queued player events to commit, then folds
// match counters and exports the updated snapshots.
func (s *Service) matchBoundary(ctx context.Context) {
	if err := s.pool.Drain(ctx); err != nil {
		s.logger.Warn(ctx, "match boundary drain interrupted", logger.Error(err))
		return
	}
	s.engine.MatchBoundary(ctx)
	s.exportSnapshots(ctx)
}

func (s *Service) exportSnapshots(ctx context.Context) {
	if s.exporter == nil {
		return
	}
	snaps := s.collectSnapshots(ctx)
	if err := s.exporter.Export(ctx, snaps); err != nil {
		s.logger.Error(ctx, "snapshot export failed", logger.Error(err))
	}
}

func (s *Service) collectSnapshots(ctx context.Context) []stats.Snapshot {
	snaps := make([]stats.Snapshot, 0, s.store.Count(ctx))
	s.store.ForEach(ctx, func(st *stats.PlayerState) {
		snaps = append(snaps, st.Snapshot())
	})
	return snaps
}

// PlayerSnapshot returns the committed snapshot for a player key.
func (s *Service) PlayerSnapshot(ctx context.Context, key string) (stats.Snapshot, error) {
	return s.store.Get(ctx, key)
}

// TopN returns the top-N leaderboard entries by rating.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Stats returns service statistics for the stats endpoint.
func (s *Service) Stats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"shardCount":  s.shardCount,
	}
	if s.started {
		out["queueLength"] = s.pool.Len(ctx)
		out["trackedPlayers"] = s.store.Count(ctx)
		out["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateTrackedPlayers(s.store.Count(ctx))
	}
	return out
}
