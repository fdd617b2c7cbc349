// Package formula contains the pure metric, rating and win-probability
// formulas. Every function here is stateless and recomputes from full
// counters, never from deltas.
package formula

// InitialRating is the rating assigned to every player before any match
// boundary has been observed.
const InitialRating = 0.5

// Weights applied inside the ratio formulas.
const (
	keyPassWeight     = 2.0
	neutralDuelWeight = 0.5
	offTargetWeight   = 0.5
	percentScale      = 100.0
)

// Metric is a derived bounded ratio. Valid is false while the metric's
// denominator is zero; the value is meaningless in that case.
type Metric struct {
	Value float64
	Valid bool
}

func ratio(num, den float64) Metric {
	if den == 0 {
		return Metric{}
	}
	return Metric{Value: num / den, Valid: true}
}

// PassAccuracy computes (accNormal + 2*accKey) / (totalNormal + 2*totalKey).
// Key passes are double-weighted on both sides, keeping the result in [0,1].
func PassAccuracy(accNormal, accKey, totalNormal, totalKey int64) Metric {
	return ratio(
		float64(accNormal)+keyPassWeight*float64(accKey),
		float64(totalNormal)+keyPassWeight*float64(totalKey),
	)
}

// DuelEffectiveness computes (won + 0.5*neutral) / total.
func DuelEffectiveness(won, neutral, total int64) Metric {
	return ratio(float64(won)+neutralDuelWeight*float64(neutral), float64(total))
}

// FreeKickEffectiveness computes (effective + penaltiesScored) / total.
func FreeKickEffectiveness(effective, penalties, total int64) Metric {
	return ratio(float64(effective)+float64(penalties), float64(total))
}

// ShotsEffectiveness computes (onTargetOrGoal + 0.5*offTarget) / total.
func ShotsEffectiveness(onTargetOrGoal, offTarget, total int64) Metric {
	return ratio(float64(onTargetOrGoal)+offTargetWeight*float64(offTarget), float64(total))
}

// Contribution averages the valid components only. Components whose
// denominator was still zero are excluded from the mean rather than treated
// as zeros, so the result stays in [0,1] whenever each component is. The
// result is invalid when no component is valid yet.
func Contribution(components ...Metric) Metric {
	var sum float64
	var n int
	for _, c := range components {
		if c.Valid {
			sum += c.Value
			n++
		}
	}
	if n == 0 {
		return Metric{}
	}
	return Metric{Value: sum / float64(n), Valid: true}
}

// NextRating smooths a match contribution into the prior rating. The result
// is in [0,1] whenever both inputs are.
func NextRating(contribution, current float64) float64 {
	return (contribution + current) / 2
}

// WinningChance maps two aggregate strengths to complementary win
// percentages. The inputs are expected in [0,1] but are deliberately not
// clamped; out-of-range strengths produce out-of-[0,100] outputs. The two
// results always sum to exactly 100.
func WinningChance(strengthA, strengthB float64) (chanceA, chanceB float64) {
	chanceA = ((InitialRating + strengthA) - (strengthA+strengthB)/2) * percentScale
	chanceB = percentScale - chanceA
	return chanceA, chanceB
}
