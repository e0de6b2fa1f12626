package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	repository "github.com/shiftmatch/shiftmatch/internal/adapters/repository"
	"github.com/shiftmatch/shiftmatch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func result(id string, total float64) model.MatchResult {
	return model.MatchResult{
		CandidateID: id,
		TotalScore:  total,
		Breakdown:   model.Breakdown{Job: total},
	}
}

func TestDeckStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty deck store", t, func() {
		store := repository.NewDeckStore(ctx)

		Convey("When candidates are upserted", func() {
			So(store.Upsert(ctx, result("cand-b", 70)), ShouldBeNil)
			So(store.Upsert(ctx, result("cand-a", 90)), ShouldBeNil)
			So(store.Upsert(ctx, result("cand-c", 50)), ShouldBeNil)

			Convey("Then TopN returns them in score order", func() {
				entries, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 3)
				So(entries[0].CandidateID, ShouldEqual, "cand-a")
				So(entries[1].CandidateID, ShouldEqual, "cand-b")
				So(entries[2].CandidateID, ShouldEqual, "cand-c")
				So(entries[0].Position, ShouldEqual, 1)
				So(entries[2].Position, ShouldEqual, 3)
			})

			Convey("And Count reflects the deck size", func() {
				So(store.Count(ctx), ShouldEqual, 3)
			})

			Convey("And Rank finds each candidate's position", func() {
				entry, err := store.Rank(ctx, "cand-b")
				So(err, ShouldBeNil)
				So(entry.Position, ShouldEqual, 2)
				So(entry.TotalScore, ShouldEqual, 70)
			})
		})

		Convey("When a candidate is re-scored", func() {
			So(store.Upsert(ctx, result("cand-a", 90)), ShouldBeNil)
			So(store.Upsert(ctx, result("cand-b", 50)), ShouldBeNil)
			So(store.Upsert(ctx, result("cand-a", 20)), ShouldBeNil)

			Convey("Then the new score replaces the old, even when lower", func() {
				entries, err := store.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].CandidateID, ShouldEqual, "cand-b")
				So(entries[1].CandidateID, ShouldEqual, "cand-a")
				So(entries[1].TotalScore, ShouldEqual, 20)
			})
		})

		Convey("When scores tie", func() {
			So(store.Upsert(ctx, result("zeta", 75)), ShouldBeNil)
			So(store.Upsert(ctx, result("alpha", 75)), ShouldBeNil)
			So(store.Upsert(ctx, result("mid", 75)), ShouldBeNil)

			Convey("Then candidate id ascending breaks the tie deterministically", func() {
				entries, err := store.TopN(ctx, 3)
				So(err, ShouldBeNil)
				So(entries[0].CandidateID, ShouldEqual, "alpha")
				So(entries[1].CandidateID, ShouldEqual, "mid")
				So(entries[2].CandidateID, ShouldEqual, "zeta")
			})
		})

		Convey("When TopN asks for more than the deck holds", func() {
			So(store.Upsert(ctx, result("only", 10)), ShouldBeNil)

			entries, err := store.TopN(ctx, 100)

			Convey("Then it returns what exists", func() {
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})

		Convey("When TopN gets an invalid limit", func() {
			_, err := store.TopN(ctx, 0)

			Convey("Then it rejects it", func() {
				So(err, ShouldEqual, repository.ErrInvalidLimit)
			})
		})

		Convey("When ranking an unknown candidate", func() {
			_, err := store.Rank(ctx, "ghost")

			Convey("Then ErrNotFound comes back", func() {
				So(err, ShouldEqual, repository.ErrNotFound)
			})
		})

		Convey("When the deck is reset", func() {
			So(store.Upsert(ctx, result("cand-a", 90)), ShouldBeNil)
			store.Reset(ctx)

			Convey("Then it is empty again", func() {
				So(store.Count(ctx), ShouldEqual, 0)
				entries, err := store.TopN(ctx, 5)
				So(err, ShouldBeNil)
				So(entries, ShouldBeEmpty)
			})
		})

		Convey("When the breakdown is stored", func() {
			So(store.Upsert(ctx, model.MatchResult{
				CandidateID: "cand-x",
				TotalScore:  85,
				Breakdown:   model.Breakdown{Job: 40, Location: 30, Availability: 15},
			}), ShouldBeNil)

			entry, err := store.Rank(ctx, "cand-x")

			Convey("Then it survives the round trip", func() {
				So(err, ShouldBeNil)
				So(entry.Breakdown.Job, ShouldEqual, 40)
				So(entry.Breakdown.Location, ShouldEqual, 30)
				So(entry.Breakdown.Availability, ShouldEqual, 15)
			})
		})
	})
}

func TestDeckStoreConcurrent(t *testing.T) {
	ctx := context.Background()

	Convey("Given concurrent writers and readers", t, func() {
		store := repository.NewDeckStore(ctx)
		var wg sync.WaitGroup

		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 250; i++ {
					id := fmt.Sprintf("cand-%d-%d", g, i)
					_ = store.Upsert(ctx, result(id, float64(i%101)))
					_, _ = store.TopN(ctx, 10)
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the deck holds every distinct candidate", func() {
			So(store.Count(ctx), ShouldEqual, 1000)

			entries, err := store.TopN(ctx, 1000)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1000)

			for i := 1; i < len(entries); i++ {
				So(entries[i].TotalScore, ShouldBeLessThanOrEqualTo, entries[i-1].TotalScore)
			}
		})
	})
}
