package replay_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/replay"
	"github.com/pitchpulse/pitchpulse/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGenerateMatches(t *testing.T) {
	Convey("Given a feed configuration", t, func() {
		ctx := context.Background()
		cfg := replay.Config{Players: 10, Matches: 3, EventsPerMatch: 200}

		Convey("When generating the feed", func() {
			records := replay.GenerateMatches(ctx, cfg)

			Convey("Then each match contributes its events plus one boundary", func() {
				So(records, ShouldHaveLength, 3*(200+1))
			})

			Convey("Then exactly one match-level record closes each match", func() {
				boundaries := 0
				for _, rec := range records {
					if rec.IsMatchRecord() {
						boundaries++
					}
				}
				So(boundaries, ShouldEqual, 3)
				So(records[200].IsMatchRecord(), ShouldBeTrue)
				So(records[len(records)-1].IsMatchRecord(), ShouldBeTrue)
			})

			Convey("Then every player event is classifiable", func() {
				for _, rec := range records {
					if rec.IsMatchRecord() {
						continue
					}
					ev := classify.Classify(rec)
					So(ev.Kind, ShouldNotEqual, classify.KindUnrecognized)
				}
			})

			Convey("Then every record carries a unique id", func() {
				ids := map[string]bool{}
				for _, rec := range records {
					So(ids[rec.RecordID], ShouldBeFalse)
					ids[rec.RecordID] = true
				}
			})
		})
	})
}

func TestJSONLRoundTrip(t *testing.T) {
	Convey("Given a generated feed", t, func() {
		ctx := context.Background()
		records := replay.GenerateMatches(ctx, replay.Config{Players: 5, Matches: 1, EventsPerMatch: 50})

		Convey("When written as JSONL and read back", func() {
			var buf bytes.Buffer
			So(replay.WriteJSONL(&buf, records), ShouldBeNil)

			parsed, err := replay.ReadJSONL(&buf)

			Convey("Then the stream survives unchanged", func() {
				So(err, ShouldBeNil)
				So(parsed, ShouldHaveLength, len(records))
				So(parsed[0].RecordID, ShouldEqual, records[0].RecordID)
				So(parsed[len(parsed)-1].IsMatchRecord(), ShouldBeTrue)
			})
		})

		Convey("When the input contains a broken line", func() {
			_, err := replay.ReadJSONL(bytes.NewBufferString("{\"eventId\":8}\nnot json\n"))

			So(err, ShouldNotBeNil)
		})
	})
}
