package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/teambadge/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it starts empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording runs", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the run is new", func() {
				So(d.SeenAndRecord(ctx, "run-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the run was already seen", func() {
				d.SeenAndRecord(ctx, "run-1")
				So(d.SeenAndRecord(ctx, "run-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the run is unrecorded", func() {
				d.SeenAndRecord(ctx, "run-1")
				d.Unrecord(ctx, "run-1")
				d.Unrecord(ctx, "never-seen")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "run-1"), ShouldBeFalse)
				})
			})
		})

		Convey("When the deduper is bounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for _, id := range []string{"a", "b", "c", "d"} {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}

			Convey("Then the oldest entry is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "d"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "c"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When the deduper is unbounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 500; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("run-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 500)
				So(d.SeenAndRecord(ctx, "run-0"), ShouldBeTrue)
			})
		})

		Convey("When many goroutines record the same ID", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "shared") {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			Convey("Then exactly one caller records it", func() {
				So(fresh, ShouldEqual, 1)
			})
		})
	})
}
