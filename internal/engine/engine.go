// Package engine orchestrates the per-event aggregation pipeline:
// classification, per-key state update, metric recomputation and commit.
package engine

import (
	"context"

	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

// Outcome is the terminal state of one processed record.
type Outcome int

// Terminal states. There are no retries inside the engine; redelivery is a
// transport concern.
const (
	OutcomeIgnored Outcome = iota
	OutcomeCommitted
)

// Ignore reasons reported in Result and on the ignored-events metric.
const (
	ReasonMatchRecord   = "match_record"
	ReasonMissingPlayer = "missing_player"
	ReasonUnrecognized  = "unrecognized"
)

// Result reports how a record was handled. Snapshot is only populated for
// committed events.
type Result struct {
	Outcome  Outcome
	Reason   string
	Category classify.Kind
	Snapshot stats.Snapshot
}

// Engine applies records to the state store. It performs exactly one store
// update per classified player event and none for ignored records.
type Engine struct {
	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine over the given store.
func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: logger.Get().Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs one record through classification and, for recognized player
// events, through the store's per-key read-modify-write. Every failure mode
// is local to the record: bad input never aborts the stream or touches
// other keys.
func (e *Engine) Apply(ctx context.Context, rec model.Record) (Result, error) {
	if rec.IsMatchRecord() {
		// Match-level records are routed to MatchBoundary by the caller.
		return Result{Outcome: OutcomeIgnored, Reason: ReasonMatchRecord}, nil
	}
	if rec.PlayerID == 0 {
		metrics.RecordRecordMalformed()
		e.logger.Warn(ctx, "dropping player event without player id",
			logger.Int("eventType", *rec.EventType),
		)
		return Result{Outcome: OutcomeIgnored, Reason: ReasonMissingPlayer}, nil
	}

	ev := classify.Classify(rec)
	if ev.Kind == classify.KindUnrecognized {
		metrics.RecordEventIgnored(ReasonUnrecognized)
		e.logger.Debug(ctx, "ignoring unrecognized event",
			logger.Int("eventType", *rec.EventType),
			logger.String("player", ev.PlayerKey),
		)
		return Result{Outcome: OutcomeIgnored, Reason: ReasonUnrecognized}, nil
	}

	snap, err := e.store.Update(ctx, ev.PlayerKey, func(st *stats.PlayerState) {
		st.Apply(ev)
	})
	if err != nil {
		return Result{}, err
	}

	metrics.RecordEventCommitted(ev.Kind.String())
	return Result{Outcome: OutcomeCommitted, Category: ev.Kind, Snapshot: snap}, nil
}

// MatchBoundary closes the current match: every player whose match counters
// were touched gets its contribution smoothed into the rating and its match
// counters folded into the career totals. This is the only point where
// ratings move. Returns the number of players folded.
func (e *Engine) MatchBoundary(ctx context.Context) int {
	folded := 0
	rated := 0
	e.store.ForEach(ctx, func(st *stats.PlayerState) {
		if !st.MatchActive {
			return
		}
		if st.MatchMetrics.Contribution().Valid {
			rated++
		}
		st.FoldMatch()
		folded++
	})

	metrics.RecordMatchBoundary()
	metrics.RecordRatingUpdates(rated)
	metrics.UpdateTrackedPlayers(e.store.Count(ctx))
	e.logger.Info(ctx, "match boundary folded",
		logger.Int("players", folded),
		logger.Int("ratingUpdates", rated),
	)
	return folded
}
