package service

import (
	"context"
	"errors"
	"testing"
	"time"

	jobqueue "github.com/okian/teambadge/internal/adapters/mq/queue"
	"github.com/okian/teambadge/internal/domain/badge"
	"github.com/okian/teambadge/internal/domain/model"
	"github.com/okian/teambadge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// idle returns a service that accepts jobs but has no workers to run them.
func idle(capacity int) *Service {
	s := New()
	s.logger = logger.Get()
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(capacity))
	s.started = true
	return s
}

func teams(n int) []model.TeamStatistics {
	out := make([]model.TeamStatistics, n)
	for i := range out {
		out[i] = model.NewTeamStatistics("team", map[model.Stat]float64{model.StatPointMargin: float64(i)})
	}
	return out
}

func TestBatches(t *testing.T) {
	Convey("Given a registered batch of three", t, func() {
		b := newBatches()
		bt := b.register("b1", 3)
		ctx := context.Background()
		fortress := badge.Assignment{PrimaryBadge: badge.Fortress, SecondaryBadges: []badge.Badge{}}
		balanced := badge.Assignment{PrimaryBadge: badge.Balanced, SecondaryBadges: []badge.Badge{}}

		Convey("When results arrive out of order", func() {
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 2}, balanced, nil)
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 0}, fortress, nil)
			So(b.pending(), ShouldEqual, 1)
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 1}, balanced, nil)

			Convey("Then they land at their index and the batch closes", func() {
				<-bt.done
				So(bt.results[0].PrimaryBadge, ShouldEqual, badge.Fortress)
				So(bt.results[2].PrimaryBadge, ShouldEqual, badge.Balanced)
				So(bt.err, ShouldBeNil)
				So(b.pending(), ShouldEqual, 0)
			})
		})

		Convey("When the batch is abandoned", func() {
			b.abandon("b1")
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 0}, fortress, nil)

			Convey("Then late results are ignored", func() {
				So(bt.results[0].PrimaryBadge, ShouldEqual, badge.Badge(""))
				So(b.pending(), ShouldEqual, 0)
			})
		})

		Convey("When a job fails", func() {
			boom := errors.New("boom")
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 0}, badge.Assignment{}, boom)
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 1}, fortress, nil)
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 2}, fortress, nil)

			Convey("Then the first error is kept", func() {
				<-bt.done
				So(bt.err, ShouldEqual, boom)
			})
		})

		Convey("When every batch is failed", func() {
			b.failAll(ErrStopped)

			Convey("Then waiters are released with the error", func() {
				<-bt.done
				So(errors.Is(bt.err, ErrStopped), ShouldBeTrue)
			})
		})

		Convey("When an index is out of range", func() {
			b.Complete(ctx, model.Job{BatchID: "b1", Index: 7}, fortress, nil)

			Convey("Then it is not counted", func() {
				So(bt.remaining, ShouldEqual, 3)
			})
		})
	})
}

func TestClassifyWithoutWorkers(t *testing.T) {
	Convey("Given a service whose queue nobody drains", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When the batch is larger than the queue", func() {
			s := idle(2)
			_, err := s.Classify(context.Background(), "", teams(3))

			Convey("Then it is rejected and forgotten", func() {
				So(errors.Is(err, ErrBackpressure), ShouldBeTrue)
				So(s.batches.pending(), ShouldEqual, 0)
			})
		})

		Convey("When the caller gives up waiting", func() {
			s := idle(10)
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := s.Classify(ctx, badge.RulesetNCAA, teams(2))

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(s.batches.pending(), ShouldEqual, 0)
			})
		})

		Convey("When the caller has already cancelled", func() {
			s := idle(10)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.Classify(ctx, "", teams(2))

			Convey("Then cancellation is reported, not a full queue", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(errors.Is(err, ErrBackpressure), ShouldBeFalse)
				So(s.batches.pending(), ShouldEqual, 0)
			})
		})

		Convey("When the queue has been closed", func() {
			s := idle(10)
			So(s.queue.Close(), ShouldBeNil)
			_, err := s.Classify(context.Background(), "", teams(1))

			Convey("Then the service reports it is stopped", func() {
				So(errors.Is(err, ErrStopped), ShouldBeTrue)
			})
		})

		Convey("When the batch exceeds the size limit", func() {
			s := idle(10)
			s.maxBatchSize = 2
			_, err := s.Classify(context.Background(), "", teams(3))

			Convey("Then it is refused before queueing", func() {
				So(errors.Is(err, ErrBatchTooLarge), ShouldBeTrue)
				So(s.queue.Len(context.Background()), ShouldEqual, 0)
			})
		})
	})
}
