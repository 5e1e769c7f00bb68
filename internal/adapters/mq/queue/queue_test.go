package queue_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/mentorled/fellowtrack/internal/adapters/mq/queue"
)

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a bounded in-memory queue", t, func() {
		q := queue.NewInMemory(queue.WithCapacity(2))

		Convey("When jobs are enqueued within capacity", func() {
			a := queue.Job{FellowID: uuid.New(), Week: 1}
			b := queue.Job{FellowID: uuid.New(), Week: 2}
			So(q.Enqueue(ctx, a), ShouldBeTrue)
			So(q.Enqueue(ctx, b), ShouldBeTrue)
			So(q.Len(), ShouldEqual, 2)

			Convey("Then a full queue rejects without blocking", func() {
				So(q.Enqueue(ctx, queue.Job{FellowID: uuid.New(), Week: 3}), ShouldBeFalse)
			})

			Convey("And Dequeue delivers jobs in order", func() {
				jobs := q.Dequeue(ctx)
				So(<-jobs, ShouldResemble, a)
				So(<-jobs, ShouldResemble, b)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then Enqueue refuses new jobs", func() {
				So(q.Enqueue(ctx, queue.Job{FellowID: uuid.New(), Week: 1}), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains and closes", func() {
				_, open := <-q.Dequeue(ctx)
				So(open, ShouldBeFalse)
			})
		})
	})
}

func TestJobKey(t *testing.T) {
	Convey("Given a job", t, func() {
		id := uuid.MustParse("0e6c9b54-21d2-4a05-9f7e-3f6f5b8a1c2d")
		j := queue.Job{FellowID: id, Week: 12}

		Convey("Then the dedupe key combines fellow and week", func() {
			So(j.Key(), ShouldEqual, "0e6c9b54-21d2-4a05-9f7e-3f6f5b8a1c2d:12")
		})
	})
}
