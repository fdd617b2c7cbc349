package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
	"github.com/pitchpulse/pitchpulse/pkg/metrics"
)

// Sharded in-memory Store implementation.
//
// Keys hash onto a fixed set of shards, each guarded by its own mutex, so
// updates for one key serialize on its shard while distinct keys mostly
// proceed in parallel. There is deliberately no global lock.

const defaultShardCount = 16

type shard struct {
	mu     sync.Mutex
	states map[string]*stats.PlayerState
}

// ShardedStore implements Store over hash-partitioned in-memory shards.
type ShardedStore struct {
	shards []*shard
}

// NewShardedStore constructs a sharded store with configuration options.
func NewShardedStore(opts ...Option) *ShardedStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &ShardedStore{shards: make([]*shard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &shard{states: make(map[string]*stats.PlayerState)}
	}

	metrics.UpdateStoreShardCount(cfg.shardCount)
	return s
}

func (s *ShardedStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Update implements Store.Update with create-on-first-use semantics.
func (s *ShardedStore) Update(ctx context.Context, key string, fn func(*stats.PlayerState)) (stats.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.states[key]
	if !ok {
		st = stats.NewPlayerState(key)
		sh.states[key] = st
	}
	fn(st)
	return st.Snapshot(), nil
}

// Get implements Store.Get.
func (s *ShardedStore) Get(ctx context.Context, key string) (stats.Snapshot, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.states[key]
	if !ok {
		return stats.Snapshot{}, ErrNotFound
	}
	return st.Snapshot(), nil
}

// Seed implements Store.Seed. A profile never resets counters that already
// accumulated for its key; it only attaches the static reference row.
func (s *ShardedStore) Seed(ctx context.Context, profiles []model.Profile) int {
	applied := 0
	for _, p := range profiles {
		key := strconv.FormatInt(p.ID, 10)
		sh := s.shardFor(key)
		sh.mu.Lock()
		st, ok := sh.states[key]
		if !ok {
			st = stats.NewPlayerState(key)
			sh.states[key] = st
		}
		st.Profile = p
		sh.mu.Unlock()
		applied++
	}
	metrics.UpdateTrackedPlayers(s.Count(ctx))
	return applied
}

// TopN implements Store.TopN.
func (s *ShardedStore) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	entries := make([]Entry, 0, n)
	for _, sh := range s.shards {
		sh.mu.Lock()
		for key, st := range sh.states {
			entries = append(entries, Entry{PlayerKey: key, Name: st.Profile.Name, Rating: st.Rating})
		}
		sh.mu.Unlock()
	}

	sortEntries(entries)
	assignRanksWithTies(entries)
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// ForEach implements Store.ForEach, locking one shard at a time.
func (s *ShardedStore) ForEach(ctx context.Context, fn func(*stats.PlayerState)) {
	for _, sh := range s.shards {
		sh.mu.Lock()
		for _, st := range sh.states {
			fn(st)
		}
		sh.mu.Unlock()
	}
}

// Count implements Store.Count.
func (s *ShardedStore) Count(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		total += len(sh.states)
		sh.mu.Unlock()
	}
	return total
}

// sortEntries orders by rating desc with key asc as a deterministic
// tie-breaker.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].PlayerKey < entries[j].PlayerKey
	})
}

// assignRanksWithTies gives equal ratings equal ranks; the next distinct
// rating gets the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Rating != entries[i-1].Rating {
			rank++
		}
		entries[i].Rank = rank
	}
}
