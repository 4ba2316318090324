package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/adapters/mq/queue"
	"github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	convey.Convey("Given a bounded in-memory queue", t, func() {
		ctx := context.Background()

		convey.Convey("When jobs are enqueued and dequeued", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))

			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-1"}), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-2"}), convey.ShouldBeTrue)
			convey.So(q.Len(ctx), convey.ShouldEqual, 2)

			jobs := q.Dequeue(ctx)
			first := <-jobs
			second := <-jobs
			convey.So(first.RunID, convey.ShouldEqual, "run-1")
			convey.So(second.RunID, convey.ShouldEqual, "run-2")
		})

		convey.Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))

			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-1"}), convey.ShouldBeTrue)
			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-2"}), convey.ShouldBeFalse)
			convey.So(q.Len(ctx), convey.ShouldEqual, 1)
		})

		convey.Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-1"}), convey.ShouldBeTrue)
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then enqueue is rejected", func() {
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
				convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-2"}), convey.ShouldBeFalse)
			})

			convey.Convey("Then buffered jobs still drain and the channel closes", func() {
				jobs := q.Dequeue(ctx)
				job, ok := <-jobs
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(job.RunID, convey.ShouldEqual, "run-1")

				_, ok = <-jobs
				convey.So(ok, convey.ShouldBeFalse)
			})

			convey.Convey("Then closing again is a no-op", func() {
				convey.So(q.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the dequeue context is canceled", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(2))
			convey.So(q.Enqueue(ctx, queue.Job{RunID: "run-1"}), convey.ShouldBeTrue)

			dequeueCtx, cancel := context.WithCancel(ctx)
			cancel()
			jobs := q.Dequeue(dequeueCtx)

			// With no receiver attached, the consumer goroutine can only
			// observe the canceled context and close the channel.
			time.Sleep(50 * time.Millisecond)

			_, ok := <-jobs
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
