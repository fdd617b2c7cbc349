package formula_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pitchpulse/pitchpulse/internal/domain/formula"
)

func TestPassAccuracy(t *testing.T) {
	Convey("Given pass counters", t, func() {
		Convey("When no passes have been seen", func() {
			m := formula.PassAccuracy(0, 0, 0, 0)

			Convey("Then the metric is invalid", func() {
				So(m.Valid, ShouldBeFalse)
			})
		})

		Convey("When all passes are accurate", func() {
			m := formula.PassAccuracy(8, 2, 8, 2)

			Convey("Then accuracy is exactly 1", func() {
				So(m.Valid, ShouldBeTrue)
				So(m.Value, ShouldEqual, 1.0)
			})
		})

		Convey("When no passes are accurate", func() {
			m := formula.PassAccuracy(0, 0, 5, 1)

			Convey("Then accuracy is exactly 0", func() {
				So(m.Valid, ShouldBeTrue)
				So(m.Value, ShouldEqual, 0.0)
			})
		})

		Convey("When key passes are present", func() {
			// (3 + 2*1) / (6 + 2*2) = 5/10
			m := formula.PassAccuracy(3, 1, 6, 2)

			Convey("Then key passes carry double weight", func() {
				So(m.Valid, ShouldBeTrue)
				So(m.Value, ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When an accurate key pass replaces an accurate normal pass", func() {
			withNormal := formula.PassAccuracy(4, 0, 6, 2)
			withKey := formula.PassAccuracy(3, 1, 6, 2)

			Convey("Then the key pass is worth more", func() {
				So(withKey.Value, ShouldBeGreaterThan, withNormal.Value)
			})
		})

		Convey("When one more key pass lands accurate with everything else fixed", func() {
			Convey("Then accuracy never decreases across counter states", func() {
				for totalNormal := int64(0); totalNormal <= 4; totalNormal++ {
					for totalKey := int64(1); totalKey <= 4; totalKey++ {
						for accNormal := int64(0); accNormal <= totalNormal; accNormal++ {
							for accKey := int64(0); accKey < totalKey; accKey++ {
								base := formula.PassAccuracy(accNormal, accKey, totalNormal, totalKey)
								bumped := formula.PassAccuracy(accNormal, accKey+1, totalNormal, totalKey)
								So(base.Valid, ShouldBeTrue)
								So(bumped.Valid, ShouldBeTrue)
								So(bumped.Value, ShouldBeGreaterThanOrEqualTo, base.Value)
							}
						}
					}
				}
			})
		})
	})
}

func TestDuelEffectiveness(t *testing.T) {
	Convey("Given duel counters", t, func() {
		Convey("When no duels have been fought", func() {
			So(formula.DuelEffectiveness(0, 0, 0).Valid, ShouldBeFalse)
		})

		Convey("When all duels are won", func() {
			m := formula.DuelEffectiveness(4, 0, 4)
			So(m.Value, ShouldEqual, 1.0)
		})

		Convey("When duels split into won, neutral and lost", func() {
			// (2 + 0.5*2) / 6
			m := formula.DuelEffectiveness(2, 2, 6)
			So(m.Valid, ShouldBeTrue)
			So(m.Value, ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("When all duels end neutral", func() {
			m := formula.DuelEffectiveness(0, 3, 3)
			So(m.Value, ShouldAlmostEqual, 0.5, 1e-12)
		})
	})
}

func TestFreeKickEffectiveness(t *testing.T) {
	Convey("Given free kick counters", t, func() {
		Convey("When no free kicks have been taken", func() {
			So(formula.FreeKickEffectiveness(0, 0, 0).Valid, ShouldBeFalse)
		})

		Convey("When effective kicks and scored penalties are combined", func() {
			// (2 + 1) / 4
			m := formula.FreeKickEffectiveness(2, 1, 4)
			So(m.Valid, ShouldBeTrue)
			So(m.Value, ShouldAlmostEqual, 0.75, 1e-12)
		})
	})
}

func TestShotsEffectiveness(t *testing.T) {
	Convey("Given shot counters", t, func() {
		Convey("When no shots have been taken", func() {
			So(formula.ShotsEffectiveness(0, 0, 0).Valid, ShouldBeFalse)
		})

		Convey("When shots split between on and off target", func() {
			// (1 + 0.5*2) / 4
			m := formula.ShotsEffectiveness(1, 2, 4)
			So(m.Valid, ShouldBeTrue)
			So(m.Value, ShouldAlmostEqual, 0.5, 1e-12)
		})
	})
}

func TestContribution(t *testing.T) {
	Convey("Given derived metric components", t, func() {
		valid := func(v float64) formula.Metric { return formula.Metric{Value: v, Valid: true} }

		Convey("When no component is valid", func() {
			c := formula.Contribution(formula.Metric{}, formula.Metric{})

			Convey("Then the contribution is invalid", func() {
				So(c.Valid, ShouldBeFalse)
			})
		})

		Convey("When all components are valid", func() {
			c := formula.Contribution(valid(1.0), valid(0.5), valid(0.5), valid(0.0))

			Convey("Then it is the plain mean", func() {
				So(c.Valid, ShouldBeTrue)
				So(c.Value, ShouldAlmostEqual, 0.5, 1e-12)
			})
		})

		Convey("When some components are still invalid", func() {
			c := formula.Contribution(valid(0.8), formula.Metric{}, valid(0.4), formula.Metric{})

			Convey("Then only valid components enter the mean", func() {
				So(c.Valid, ShouldBeTrue)
				So(c.Value, ShouldAlmostEqual, 0.6, 1e-12)
			})
		})
	})
}

func TestNextRating(t *testing.T) {
	Convey("Given a contribution and a prior rating", t, func() {
		Convey("When both are at the initial level", func() {
			So(formula.NextRating(0.5, formula.InitialRating), ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("When the contribution exceeds the rating", func() {
			next := formula.NextRating(0.9, 0.5)

			Convey("Then the rating moves halfway toward it", func() {
				So(next, ShouldAlmostEqual, 0.7, 1e-12)
			})
		})

		Convey("When inputs are in range the result stays in range", func() {
			for _, contrib := range []float64{0, 0.25, 0.5, 0.75, 1} {
				for _, rating := range []float64{0, 0.5, 1} {
					next := formula.NextRating(contrib, rating)
					So(next, ShouldBeBetweenOrEqual, 0, 1)
				}
			}
		})
	})
}

func TestWinningChance(t *testing.T) {
	Convey("Given two player strengths", t, func() {
		Convey("When the strengths are equal", func() {
			a, b := formula.WinningChance(0.5, 0.5)

			Convey("Then the chances split evenly", func() {
				So(a, ShouldAlmostEqual, 50, 1e-9)
				So(b, ShouldAlmostEqual, 50, 1e-9)
			})
		})

		Convey("When one player is clearly stronger", func() {
			a, b := formula.WinningChance(0.9, 0.5)

			Convey("Then the gap maps to a 70/30 split", func() {
				So(a, ShouldAlmostEqual, 70, 1e-9)
				So(b, ShouldAlmostEqual, 30, 1e-9)
			})
		})

		Convey("When computed for any pair the chances sum to 100", func() {
			pairs := [][2]float64{{0, 1}, {0.2, 0.9}, {0.33, 0.41}, {1, 1}}
			for _, p := range pairs {
				a, b := formula.WinningChance(p[0], p[1])
				So(a+b, ShouldAlmostEqual, 100, 1e-9)
			}
		})

		Convey("When the order of the players flips", func() {
			a1, b1 := formula.WinningChance(0.7, 0.3)
			a2, b2 := formula.WinningChance(0.3, 0.7)

			Convey("Then the result is symmetric", func() {
				So(a1, ShouldAlmostEqual, b2, 1e-9)
				So(b1, ShouldAlmostEqual, a2, 1e-9)
			})
		})
	})
}
