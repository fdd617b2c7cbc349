package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pitchpulse/pitchpulse/internal/adapters/repository"
	"github.com/pitchpulse/pitchpulse/internal/domain/classify"
	"github.com/pitchpulse/pitchpulse/internal/domain/model"
	"github.com/pitchpulse/pitchpulse/internal/domain/stats"
)

func TestShardedStoreUpdate(t *testing.T) {
	Convey("Given a sharded store", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore()

		Convey("When a key is updated for the first time", func() {
			snap, err := store.Update(ctx, "42", func(st *stats.PlayerState) {
				st.Apply(classify.Event{Kind: classify.KindFoul})
			})

			Convey("Then the state is created on first use", func() {
				So(err, ShouldBeNil)
				So(snap.Key, ShouldEqual, "42")
				So(snap.Match.Fouls, ShouldEqual, 1)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the same key is updated from many goroutines", func() {
			const workers = 8
			const perWorker = 250

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						_, _ = store.Update(ctx, "42", func(st *stats.PlayerState) {
							st.Apply(classify.Event{Kind: classify.KindFoul})
						})
					}
				}()
			}
			wg.Wait()

			Convey("Then no update is lost", func() {
				snap, err := store.Get(ctx, "42")
				So(err, ShouldBeNil)
				So(snap.Match.Fouls, ShouldEqual, workers*perWorker)
			})
		})

		Convey("When distinct keys are updated concurrently", func() {
			const players = 100
			var wg sync.WaitGroup
			for p := 0; p < players; p++ {
				wg.Add(1)
				go func(p int) {
					defer wg.Done()
					_, _ = store.Update(ctx, fmt.Sprintf("%d", p), func(st *stats.PlayerState) {
						st.Apply(classify.Event{Kind: classify.KindFoul})
					})
				}(p)
			}
			wg.Wait()

			Convey("Then every key exists independently", func() {
				So(store.Count(ctx), ShouldEqual, players)
			})
		})
	})
}

func TestShardedStoreGet(t *testing.T) {
	Convey("Given a sharded store", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore()

		Convey("When getting an unknown key", func() {
			_, err := store.Get(ctx, "missing")

			Convey("Then it reports not found", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When getting a key after an update", func() {
			_, _ = store.Update(ctx, "42", func(st *stats.PlayerState) {
				st.Rating = 0.7
			})
			snap, err := store.Get(ctx, "42")

			So(err, ShouldBeNil)
			So(snap.Rating, ShouldEqual, 0.7)
		})
	})
}

func TestShardedStoreSeed(t *testing.T) {
	Convey("Given a sharded store", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore()

		profiles := []model.Profile{
			{ID: 42, Name: "J. Keeper", Role: "GK"},
			{ID: 7, Name: "A. Winger", Role: "FW"},
		}

		Convey("When profiles are seeded into an empty store", func() {
			applied := store.Seed(ctx, profiles)

			Convey("Then every profile is attached to its key", func() {
				So(applied, ShouldEqual, 2)
				snap, err := store.Get(ctx, "42")
				So(err, ShouldBeNil)
				So(snap.Profile.Name, ShouldEqual, "J. Keeper")
			})
		})

		Convey("When a key accumulated state before seeding", func() {
			_, _ = store.Update(ctx, "42", func(st *stats.PlayerState) {
				st.Apply(classify.Event{Kind: classify.KindFoul})
				st.Rating = 0.9
			})
			store.Seed(ctx, profiles)

			Convey("Then seeding attaches the profile without resetting counters", func() {
				snap, err := store.Get(ctx, "42")
				So(err, ShouldBeNil)
				So(snap.Profile.Name, ShouldEqual, "J. Keeper")
				So(snap.Match.Fouls, ShouldEqual, 1)
				So(snap.Rating, ShouldEqual, 0.9)
			})
		})
	})
}

func TestShardedStoreTopN(t *testing.T) {
	Convey("Given a store with rated players", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore()

		setRating := func(key string, rating float64) {
			_, _ = store.Update(ctx, key, func(st *stats.PlayerState) {
				st.Rating = rating
			})
		}
		setRating("1", 0.9)
		setRating("2", 0.7)
		setRating("3", 0.7)
		setRating("4", 0.4)

		Convey("When asking for the full leaderboard", func() {
			entries, err := store.TopN(ctx, 10)

			Convey("Then entries are ordered by rating with deterministic keys on ties", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 4)
				So(entries[0].PlayerKey, ShouldEqual, "1")
				So(entries[1].PlayerKey, ShouldEqual, "2")
				So(entries[2].PlayerKey, ShouldEqual, "3")
				So(entries[3].PlayerKey, ShouldEqual, "4")
			})

			Convey("Then tied ratings share a rank", func() {
				So(entries[0].Rank, ShouldEqual, 1)
				So(entries[1].Rank, ShouldEqual, 2)
				So(entries[2].Rank, ShouldEqual, 2)
				So(entries[3].Rank, ShouldEqual, 3)
			})
		})

		Convey("When asking for fewer entries than exist", func() {
			entries, err := store.TopN(ctx, 2)

			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 2)
			So(entries[0].PlayerKey, ShouldEqual, "1")
		})

		Convey("When asking with an invalid limit", func() {
			_, err := store.TopN(ctx, 0)

			So(err, ShouldEqual, repository.ErrInvalidLimit)
		})
	})
}

func TestShardedStoreForEach(t *testing.T) {
	Convey("Given a store with a few players", t, func() {
		ctx := context.Background()
		store := repository.NewShardedStore(repository.WithShardCount(4))
		for i := 0; i < 10; i++ {
			_, _ = store.Update(ctx, fmt.Sprintf("%d", i), func(st *stats.PlayerState) {
				st.Apply(classify.Event{Kind: classify.KindFoul})
			})
		}

		Convey("When iterating over all states", func() {
			visited := map[string]bool{}
			store.ForEach(ctx, func(st *stats.PlayerState) {
				visited[st.Key] = true
			})

			Convey("Then every state is visited exactly once", func() {
				So(visited, ShouldHaveLength, 10)
			})
		})
	})
}
