// Package stats holds the mutable per-player running state: match-scoped
// and career counters plus the derived bounded metrics and the smoothed
// rating. State instances are owned exclusively by the store; all mutation
// happens inside a store update.
package stats

import (
	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/domain/formula"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
)

// Counters are the monotonically accumulating outcome counts for one scope
// (current match or career). All fields are non-negative and only ever grow
// within their scope.
type Counters struct {
	AccurateNormalPasses int64 `json:"accurateNormalPasses"`
	AccurateKeyPasses    int64 `json:"accurateKeyPasses"`
	TotalNormalPasses    int64 `json:"totalNormalPasses"`
	TotalKeyPasses       int64 `json:"totalKeyPasses"`

	DuelsWon     int64 `json:"duelsWon"`
	DuelsNeutral int64 `json:"duelsNeutral"`
	DuelsTotal   int64 `json:"duelsTotal"`

	EffectiveFreeKicks int64 `json:"effectiveFreeKicks"`
	PenaltiesScored    int64 `json:"penaltiesScored"`
	TotalFreeKicks     int64 `json:"totalFreeKicks"`

	ShotsOnTargetOrGoal int64 `json:"shotsOnTargetOrGoal"`
	ShotsOffTarget      int64 `json:"shotsOffTarget"`
	TotalShots          int64 `json:"totalShots"`

	Fouls    int64 `json:"fouls"`
	OwnGoals int64 `json:"ownGoals"`
}

// Add accumulates o into c. Used when folding match counters into career
// counters at a match boundary.
func (c *Counters) Add(o Counters) {
	c.AccurateNormalPasses += o.AccurateNormalPasses
	c.AccurateKeyPasses += o.AccurateKeyPasses
	c.TotalNormalPasses += o.TotalNormalPasses
	c.TotalKeyPasses += o.TotalKeyPasses
	c.DuelsWon += o.DuelsWon
	c.DuelsNeutral += o.DuelsNeutral
	c.DuelsTotal += o.DuelsTotal
	c.EffectiveFreeKicks += o.EffectiveFreeKicks
	c.PenaltiesScored += o.PenaltiesScored
	c.TotalFreeKicks += o.TotalFreeKicks
	c.ShotsOnTargetOrGoal += o.ShotsOnTargetOrGoal
	c.ShotsOffTarget += o.ShotsOffTarget
	c.TotalShots += o.TotalShots
	c.Fouls += o.Fouls
	c.OwnGoals += o.OwnGoals
}

// apply increments the counters of exactly one category for the event.
func (c *Counters) apply(ev classify.Event) {
	switch ev.Kind {
	case classify.KindPass:
		if ev.KeyPass {
			c.TotalKeyPasses++
			if ev.PassAccurate {
				c.AccurateKeyPasses++
			}
		} else {
			c.TotalNormalPasses++
			if ev.PassAccurate {
				c.AccurateNormalPasses++
			}
		}
	case classify.KindDuel:
		c.DuelsTotal++
		switch ev.Duel {
		case classify.DuelWon:
			c.DuelsWon++
		case classify.DuelNeutral:
			c.DuelsNeutral++
		case classify.DuelLost:
			// Lost duels only grow the total.
		}
	case classify.KindFreeKick:
		c.TotalFreeKicks++
		if ev.FreeKickEffective {
			c.EffectiveFreeKicks++
		}
		if ev.PenaltyScored {
			c.PenaltiesScored++
		}
	case classify.KindShot:
		c.TotalShots++
		if ev.ShotOnTargetOrGoal {
			c.ShotsOnTargetOrGoal++
		} else {
			c.ShotsOffTarget++
		}
	case classify.KindFoul:
		c.Fouls++
	case classify.KindUnrecognized:
		// Never reaches the state layer.
	}
	if ev.OwnGoal {
		c.OwnGoals++
	}
}

// Derived is the committed snapshot of the bounded metrics for one scope.
// Each metric is recomputed from the full counters whenever its category is
// touched and stays invalid while its denominator is zero.
type Derived struct {
	PassAccuracy          formula.Metric `json:"passAccuracy"`
	DuelEffectiveness     formula.Metric `json:"duelEffectiveness"`
	FreeKickEffectiveness formula.Metric `json:"freeKickEffectiveness"`
	ShotsEffectiveness    formula.Metric `json:"shotsEffectiveness"`
}

// Recompute derives all four metrics from the counters.
func Recompute(c Counters) Derived {
	return Derived{
		PassAccuracy:          formula.PassAccuracy(c.AccurateNormalPasses, c.AccurateKeyPasses, c.TotalNormalPasses, c.TotalKeyPasses),
		DuelEffectiveness:     formula.DuelEffectiveness(c.DuelsWon, c.DuelsNeutral, c.DuelsTotal),
		FreeKickEffectiveness: formula.FreeKickEffectiveness(c.EffectiveFreeKicks, c.PenaltiesScored, c.TotalFreeKicks),
		ShotsEffectiveness:    formula.ShotsEffectiveness(c.ShotsOnTargetOrGoal, c.ShotsOffTarget, c.TotalShots),
	}
}

// Contribution is the composite match score over the defined components.
func (d Derived) Contribution() formula.Metric {
	return formula.Contribution(d.PassAccuracy, d.DuelEffectiveness, d.FreeKickEffectiveness, d.ShotsEffectiveness)
}

// PlayerState is the full running record for one player. Mutated only
// through the store's per-key update path; never shared outside it.
type PlayerState struct {
	Key     string
	Profile model.Profile

	Match  Counters
	Career Counters

	MatchMetrics  Derived
	CareerMetrics Derived

	Rating float64

	// MatchActive is set once any event of the current match touched the
	// match counters and cleared by FoldMatch.
	MatchActive bool
}

// NewPlayerState creates an all-zero state with the initial rating.
func NewPlayerState(key string) *PlayerState {
	return &PlayerState{Key: key, Rating: formula.InitialRating}
}

// Apply folds one classified event into the current-match counters and
// recomputes the match-scope metrics from the full counters.
func (s *PlayerState) Apply(ev classify.Event) {
	s.Match.apply(ev)
	s.MatchMetrics = Recompute(s.Match)
	s.MatchActive = true
}

// FoldMatch closes the current match for this player: the match contribution
// is smoothed into the rating, match counters accumulate into the career
// counters, and the match scope resets. Rating only moves when the match
// produced at least one defined metric.
func (s *PlayerState) FoldMatch() {
	if !s.MatchActive {
		return
	}
	if contrib := s.MatchMetrics.Contribution(); contrib.Valid {
		s.Rating = formula.NextRating(contrib.Value, s.Rating)
	}
	s.Career.Add(s.Match)
	s.CareerMetrics = Recompute(s.Career)
	s.Match = Counters{}
	s.MatchMetrics = Derived{}
	s.MatchActive = false
}

// Snapshot is an immutable copy of a committed state, handed to consumers
// outside the store's locks.
type Snapshot struct {
	Key           string        `json:"key"`
	Profile       model.Profile `json:"profile"`
	Match         Counters      `json:"match"`
	Career        Counters      `json:"career"`
	MatchMetrics  Derived       `json:"matchMetrics"`
	CareerMetrics Derived       `json:"careerMetrics"`
	Rating        float64       `json:"rating"`
}

// Snapshot copies the committed state.
func (s *PlayerState) Snapshot() Snapshot {
	return Snapshot{
		Key:           s.Key,
		Profile:       s.Profile,
		Match:         s.Match,
		Career:        s.Career,
		MatchMetrics:  s.MatchMetrics,
		CareerMetrics: s.CareerMetrics,
		Rating:        s.Rating,
	}
}
