package queue

import (
	"context"
	"sync"
	"testing"

	"github.com/okian/teambadge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func job(i int) Job {
	return model.Job{BatchID: "b", Index: i, Ruleset: "ncaa", Stats: model.NewTeamStatistics("T", nil)}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx := context.Background()

		Convey("When it is new", func() {
			So(q.Len(ctx), ShouldEqual, 0)
			So(q.Capacity(), ShouldEqual, 2)
			So(q.IsClosed(), ShouldBeFalse)
		})

		Convey("When a job is enqueued and dequeued", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 1)

			got := <-q.Dequeue(ctx)
			q.MarkDequeued()

			Convey("Then it comes out unchanged", func() {
				So(got.Index, ShouldEqual, 0)
				So(got.BatchID, ShouldEqual, "b")
				So(q.Len(ctx), ShouldEqual, 0)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeTrue)
			So(q.Enqueue(ctx, job(1)), ShouldBeTrue)

			Convey("Then enqueue fails without blocking", func() {
				So(q.Enqueue(ctx, job(2)), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(q.Enqueue(cctx, job(0)), ShouldBeFalse)
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, job(0)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails and remaining jobs drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, job(1)), ShouldBeFalse)

				var drained []int
				for j := range q.Dequeue(ctx) {
					drained = append(drained, j.Index)
				}
				So(drained, ShouldResemble, []int{0})
			})
		})
	})
}

func TestInMemoryQueueConcurrent(t *testing.T) {
	Convey("Given concurrent producers", t, func() {
		q := NewInMemoryQueue(WithCapacity(1000))
		ctx := context.Background()

		var wg sync.WaitGroup
		for p := 0; p < 10; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					q.Enqueue(ctx, job(p*50+i))
				}
			}(p)
		}
		wg.Wait()

		Convey("Then every job is queued once", func() {
			So(q.Len(ctx), ShouldEqual, 500)
			seen := make(map[int]bool)
			So(q.Close(), ShouldBeNil)
			for j := range q.Dequeue(ctx) {
				So(seen[j.Index], ShouldBeFalse)
				seen[j.Index] = true
			}
			So(len(seen), ShouldEqual, 500)
		})
	})
}
