// Package classify maps raw stream records to typed match events.
//
// Classification inspects the event-type code and the tag list. Tag
// precedence is most-specific-wins: a pass tagged both accurate and key is
// an accurate key pass, never counted twice.
package classify

import "github.com/pitchpulse/pitchpulse/internal/domain/model"

// Event-type codes used by the upstream feed.
const (
	TypeDuel     = 1
	TypeFoul     = 2
	TypeFreeKick = 3
	TypePass     = 8
	TypeShot     = 10
)

// Tag codes used by the upstream feed.
const (
	TagGoal        = 101
	TagOwnGoal     = 102
	TagKeyPass     = 302
	TagDuelLost    = 701
	TagDuelNeutral = 702
	TagDuelWon     = 703
	TagAccurate    = 1801
	TagInaccurate  = 1802
)

// Kind is the category of a classified event.
type Kind int

// Event categories. Unrecognized events must be ignored without mutating
// any state.
const (
	KindUnrecognized Kind = iota
	KindPass
	KindDuel
	KindFreeKick
	KindShot
	KindFoul
)

// String returns the category name, used for logging and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindPass:
		return "pass"
	case KindDuel:
		return "duel"
	case KindFreeKick:
		return "free_kick"
	case KindShot:
		return "shot"
	case KindFoul:
		return "foul"
	default:
		return "unrecognized"
	}
}

// DuelOutcome is the result of a duel event.
type DuelOutcome int

// Duel outcomes. Exactly one outcome tag is expected on a duel event.
const (
	DuelLost DuelOutcome = iota
	DuelNeutral
	DuelWon
)

// Event is a typed, structured match event produced from a raw record.
// Only the fields of its Kind are meaningful.
type Event struct {
	Kind      Kind
	PlayerKey string

	// Pass fields.
	PassAccurate bool
	KeyPass      bool

	// Duel fields.
	Duel DuelOutcome

	// Free-kick fields.
	FreeKickEffective bool
	PenaltyScored     bool

	// Shot fields.
	ShotOnTargetOrGoal bool

	// OwnGoal is set when the own-goal tag appears on a recognized event.
	OwnGoal bool
}

// Classify maps a raw player event to a typed Event. Records with an
// unknown event-type code, or duels without an outcome tag, come back as
// KindUnrecognized and must not touch any counters.
func Classify(rec model.Record) Event {
	ev := Event{Kind: KindUnrecognized, PlayerKey: rec.Key()}
	if rec.EventType == nil {
		return ev
	}

	switch *rec.EventType {
	case TypePass:
		accurate := rec.HasTag(TagAccurate)
		inaccurate := rec.HasTag(TagInaccurate)
		key := rec.HasTag(TagKeyPass)
		if !accurate && !inaccurate && !key {
			// No outcome tag: drop rather than guess.
			return ev
		}
		ev.Kind = KindPass
		ev.PassAccurate = accurate
		ev.KeyPass = key
	case TypeDuel:
		switch {
		case rec.HasTag(TagDuelWon):
			ev.Duel = DuelWon
		case rec.HasTag(TagDuelNeutral):
			ev.Duel = DuelNeutral
		case rec.HasTag(TagDuelLost):
			ev.Duel = DuelLost
		default:
			// No outcome tag: drop rather than guess.
			return ev
		}
		ev.Kind = KindDuel
	case TypeFreeKick:
		ev.Kind = KindFreeKick
		ev.FreeKickEffective = rec.HasTag(TagAccurate)
		ev.PenaltyScored = rec.HasTag(TagGoal)
	case TypeShot:
		ev.Kind = KindShot
		ev.ShotOnTargetOrGoal = rec.HasTag(TagGoal) || rec.HasTag(TagAccurate)
	case TypeFoul:
		ev.Kind = KindFoul
	default:
		return ev
	}

	ev.OwnGoal = rec.HasTag(TagOwnGoal)
	return ev
}
