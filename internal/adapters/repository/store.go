// Package repository defines the player state store interface and errors.
package repository

import (
	"context"

	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
)

// Entry represents one leaderboard row, ordered by rating.
type Entry struct {
	Rank      int     `json:"rank"`
	PlayerKey string  `json:"player_key"`
	Name      string  `json:"name,omitempty"`
	Rating    float64 `json:"rating"`
}

// Store provides keyed read-modify-write access to player state.
//
// Updates for one key are serialized: fn sees the counters committed by the
// previous update for that key and no two concurrent updates observe the
// same before-state. Updates for distinct keys may run concurrently.
type Store interface {
	// Update applies fn to the state for key under exclusive access and
	// returns an immutable snapshot of the committed result. Unknown keys
	// are created with zero counters and the initial rating before fn runs.
	Update(ctx context.Context, key string, fn func(*stats.PlayerState)) (stats.Snapshot, error)

	// Get returns the committed snapshot for key, or ErrNotFound.
	Get(ctx context.Context, key string) (stats.Snapshot, error)

	// Seed pre-creates entries from reference rows, keeping existing
	// counters when a player was already observed through the stream.
	// Returns the number of rows applied.
	Seed(ctx context.Context, profiles []model.Profile) int

	// TopN returns the top-N entries ordered by rating desc, key asc on
	// ties, with tie-aware ranks.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// ForEach runs fn for every state under that key's exclusive access.
	ForEach(ctx context.Context, fn func(*stats.PlayerState))

	// Count returns the number of tracked players.
	Count(ctx context.Context) int
}
