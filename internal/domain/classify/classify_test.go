package classify_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
)

func record(eventType int, tagIDs ...int) model.Record {
	tags := make([]model.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, model.Tag{ID: id})
	}
	return model.Record{
		EventType: &eventType,
		PlayerID:  42,
		MatchID:   "m-1",
		Tags:      tags,
	}
}

func TestClassifyPass(t *testing.T) {
	Convey("Given pass records", t, func() {
		Convey("When the pass is tagged accurate", func() {
			ev := classify.Classify(record(classify.TypePass, classify.TagAccurate))

			So(ev.Kind, ShouldEqual, classify.KindPass)
			So(ev.PassAccurate, ShouldBeTrue)
			So(ev.KeyPass, ShouldBeFalse)
			So(ev.PlayerKey, ShouldEqual, "42")
		})

		Convey("When the pass is tagged inaccurate", func() {
			ev := classify.Classify(record(classify.TypePass, classify.TagInaccurate))

			So(ev.Kind, ShouldEqual, classify.KindPass)
			So(ev.PassAccurate, ShouldBeFalse)
		})

		Convey("When the pass is tagged accurate and key", func() {
			ev := classify.Classify(record(classify.TypePass, classify.TagAccurate, classify.TagKeyPass))

			Convey("Then it is an accurate key pass, counted once", func() {
				So(ev.Kind, ShouldEqual, classify.KindPass)
				So(ev.PassAccurate, ShouldBeTrue)
				So(ev.KeyPass, ShouldBeTrue)
			})
		})

		Convey("When the pass is tagged inaccurate and key", func() {
			ev := classify.Classify(record(classify.TypePass, classify.TagInaccurate, classify.TagKeyPass))

			So(ev.Kind, ShouldEqual, classify.KindPass)
			So(ev.PassAccurate, ShouldBeFalse)
			So(ev.KeyPass, ShouldBeTrue)
		})

		Convey("When the pass carries no outcome tag", func() {
			ev := classify.Classify(record(classify.TypePass))

			Convey("Then it is unrecognized", func() {
				So(ev.Kind, ShouldEqual, classify.KindUnrecognized)
			})
		})
	})
}

func TestClassifyDuel(t *testing.T) {
	Convey("Given duel records", t, func() {
		Convey("When the duel is won", func() {
			ev := classify.Classify(record(classify.TypeDuel, classify.TagDuelWon))

			So(ev.Kind, ShouldEqual, classify.KindDuel)
			So(ev.Duel, ShouldEqual, classify.DuelWon)
		})

		Convey("When the duel is neutral", func() {
			ev := classify.Classify(record(classify.TypeDuel, classify.TagDuelNeutral))

			So(ev.Kind, ShouldEqual, classify.KindDuel)
			So(ev.Duel, ShouldEqual, classify.DuelNeutral)
		})

		Convey("When the duel is lost", func() {
			ev := classify.Classify(record(classify.TypeDuel, classify.TagDuelLost))

			So(ev.Kind, ShouldEqual, classify.KindDuel)
			So(ev.Duel, ShouldEqual, classify.DuelLost)
		})

		Convey("When the duel has no outcome tag", func() {
			ev := classify.Classify(record(classify.TypeDuel, classify.TagAccurate))

			Convey("Then it is unrecognized", func() {
				So(ev.Kind, ShouldEqual, classify.KindUnrecognized)
			})
		})
	})
}

func TestClassifySetPiecesAndShots(t *testing.T) {
	Convey("Given free kick, shot and foul records", t, func() {
		Convey("When a free kick is tagged accurate", func() {
			ev := classify.Classify(record(classify.TypeFreeKick, classify.TagAccurate))

			So(ev.Kind, ShouldEqual, classify.KindFreeKick)
			So(ev.FreeKickEffective, ShouldBeTrue)
			So(ev.PenaltyScored, ShouldBeFalse)
		})

		Convey("When a penalty is scored", func() {
			ev := classify.Classify(record(classify.TypeFreeKick, classify.TagAccurate, classify.TagGoal))

			So(ev.Kind, ShouldEqual, classify.KindFreeKick)
			So(ev.PenaltyScored, ShouldBeTrue)
		})

		Convey("When a shot results in a goal", func() {
			ev := classify.Classify(record(classify.TypeShot, classify.TagGoal))

			So(ev.Kind, ShouldEqual, classify.KindShot)
			So(ev.ShotOnTargetOrGoal, ShouldBeTrue)
		})

		Convey("When a shot is saved on target", func() {
			ev := classify.Classify(record(classify.TypeShot, classify.TagAccurate))

			So(ev.ShotOnTargetOrGoal, ShouldBeTrue)
		})

		Convey("When a shot misses", func() {
			ev := classify.Classify(record(classify.TypeShot, classify.TagInaccurate))

			So(ev.Kind, ShouldEqual, classify.KindShot)
			So(ev.ShotOnTargetOrGoal, ShouldBeFalse)
		})

		Convey("When a foul is committed", func() {
			ev := classify.Classify(record(classify.TypeFoul))

			So(ev.Kind, ShouldEqual, classify.KindFoul)
		})

		Convey("When a foul carries the own-goal tag", func() {
			ev := classify.Classify(record(classify.TypeFoul, classify.TagOwnGoal))

			So(ev.Kind, ShouldEqual, classify.KindFoul)
			So(ev.OwnGoal, ShouldBeTrue)
		})
	})
}

func TestClassifyUnknown(t *testing.T) {
	Convey("Given malformed or unknown records", t, func() {
		Convey("When the event-type code is unknown", func() {
			ev := classify.Classify(record(99, classify.TagAccurate))

			So(ev.Kind, ShouldEqual, classify.KindUnrecognized)
		})

		Convey("When the record has no event type at all", func() {
			ev := classify.Classify(model.Record{PlayerID: 42})

			So(ev.Kind, ShouldEqual, classify.KindUnrecognized)
		})
	})
}
