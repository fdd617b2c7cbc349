// Package replay generates and streams synthetic match-event feeds for
// load testing and local development.
package replay

import (
	"context"
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"

	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
)

// Config controls the shape of a generated feed.
type Config struct {
	Players        int
	Matches        int
	EventsPerMatch int
}

// DefaultConfig returns a small feed suitable for smoke testing.
func DefaultConfig() Config {
	return Config{Players: 50, Matches: 2, EventsPerMatch: 1000}
}

// randIntn returns a uniform random int in [0, n) using crypto/rand.
func randIntn(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func intPtr(v int) *int { return &v }

// GenerateMatches produces a full feed: for each match a stream of player
// events followed by one match-level record that marks the boundary.
func GenerateMatches(ctx context.Context, cfg Config) []model.Record {
	log := logger.Named("replay")
	log.Info(ctx, "generating match feed",
		logger.Int("players", cfg.Players),
		logger.Int("matches", cfg.Matches),
		logger.Int("eventsPerMatch", cfg.EventsPerMatch),
	)

	out := make([]model.Record, 0, cfg.Matches*(cfg.EventsPerMatch+1))
	for m := 0; m < cfg.Matches; m++ {
		matchID := uuid.New().String()
		for i := 0; i < cfg.EventsPerMatch; i++ {
			playerID := int64(1000 + randIntn(cfg.Players))
			out = append(out, generateEvent(matchID, playerID))
		}
		// Label-side record without an eventId closes the match.
		out = append(out, model.Record{RecordID: uuid.New().String(), MatchID: matchID})
	}
	return out
}

// generateEvent picks an event type with a distribution loosely matching a
// real match: passes dominate, then duels, then set pieces and shots.
func generateEvent(matchID string, playerID int64) model.Record {
	rec := model.Record{
		RecordID: uuid.New().String(),
		PlayerID: playerID,
		MatchID:  matchID,
		EventSec: float64(randIntn(5400)),
	}

	switch roll := randIntn(100); {
	case roll < 55:
		rec.EventType = intPtr(classify.TypePass)
		rec.Tags = passTags()
	case roll < 80:
		rec.EventType = intPtr(classify.TypeDuel)
		rec.Tags = duelTags()
	case roll < 88:
		rec.EventType = intPtr(classify.TypeFreeKick)
		rec.Tags = freeKickTags()
	case roll < 95:
		rec.EventType = intPtr(classify.TypeFoul)
	default:
		rec.EventType = intPtr(classify.TypeShot)
		rec.Tags = shotTags()
	}
	return rec
}

func passTags() []model.Tag {
	tags := make([]model.Tag, 0, 2)
	if randIntn(100) < 80 {
		tags = append(tags, model.Tag{ID: classify.TagAccurate})
	} else {
		tags = append(tags, model.Tag{ID: classify.TagInaccurate})
	}
	if randIntn(100) < 10 {
		tags = append(tags, model.Tag{ID: classify.TagKeyPass})
	}
	return tags
}

func duelTags() []model.Tag {
	switch randIntn(3) {
	case 0:
		return []model.Tag{{ID: classify.TagDuelWon}}
	case 1:
		return []model.Tag{{ID: classify.TagDuelNeutral}}
	default:
		return []model.Tag{{ID: classify.TagDuelLost}}
	}
}

func freeKickTags() []model.Tag {
	if randIntn(100) < 30 {
		return []model.Tag{{ID: classify.TagAccurate}, {ID: classify.TagGoal}}
	}
	return []model.Tag{{ID: classify.TagAccurate}}
}

func shotTags() []model.Tag {
	switch randIntn(10) {
	case 0:
		return []model.Tag{{ID: classify.TagGoal}, {ID: classify.TagAccurate}}
	case 1, 2, 3:
		return []model.Tag{{ID: classify.TagAccurate}}
	default:
		return []model.Tag{{ID: classify.TagInaccurate}}
	}
}
