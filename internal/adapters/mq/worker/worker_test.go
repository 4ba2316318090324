package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/adapters/mq/queue"
	"github.com/sciencedex/scorecard-audit/internal/adapters/mq/worker"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// fakeRunner records audit calls and returns a canned result per run id.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	failIDs map[string]error
}

func (r *fakeRunner) RunAudit(_ context.Context, req model.AuditRequest) (*model.AuditReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, req.RunID)
	if err, ok := r.failIDs[req.RunID]; ok {
		return nil, err
	}
	return &model.AuditReport{RunID: req.RunID}, nil
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// fakeTracker records lifecycle transitions keyed by run id.
type fakeTracker struct {
	mu        sync.Mutex
	running   map[string]bool
	completed map[string]*model.AuditReport
	failed    map[string]string
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		running:   make(map[string]bool),
		completed: make(map[string]*model.AuditReport),
		failed:    make(map[string]string),
	}
}

func (t *fakeTracker) MarkRunning(_ context.Context, runID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running[runID] = true
	return nil
}

func (t *fakeTracker) Complete(_ context.Context, runID string, report *model.AuditReport) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed[runID] = report
	return nil
}

func (t *fakeTracker) Fail(_ context.Context, runID string, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed[runID] = reason
	return nil
}

func (t *fakeTracker) snapshot() (completed, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.completed), len(t.failed)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestAuditWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		ctx := context.Background()

		convey.Convey("When a job succeeds", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			runner := &fakeRunner{}
			tracker := newFakeTracker()
			w := worker.NewAuditWorker(q, runner, tracker, worker.WithName("test-worker"))

			go w.Run(ctx)
			convey.So(q.Enqueue(ctx, worker.Job{RunID: "run-1"}), convey.ShouldBeTrue)

			convey.So(waitFor(func() bool {
				completed, _ := tracker.snapshot()
				return completed == 1
			}), convey.ShouldBeTrue)

			tracker.mu.Lock()
			convey.So(tracker.running["run-1"], convey.ShouldBeTrue)
			convey.So(tracker.completed["run-1"].RunID, convey.ShouldEqual, "run-1")
			convey.So(tracker.failed, convey.ShouldBeEmpty)
			tracker.mu.Unlock()

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})

		convey.Convey("When the audit fails", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			runner := &fakeRunner{failIDs: map[string]error{"run-bad": errors.New("probe backend unavailable")}}
			tracker := newFakeTracker()
			w := worker.NewAuditWorker(q, runner, tracker)

			go w.Run(ctx)
			convey.So(q.Enqueue(ctx, worker.Job{RunID: "run-bad"}), convey.ShouldBeTrue)

			convey.So(waitFor(func() bool {
				_, failed := tracker.snapshot()
				return failed == 1
			}), convey.ShouldBeTrue)

			tracker.mu.Lock()
			convey.So(tracker.failed["run-bad"], convey.ShouldEqual, "probe backend unavailable")
			convey.So(tracker.completed, convey.ShouldBeEmpty)
			tracker.mu.Unlock()

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})

		convey.Convey("When the queue closes", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			w := worker.NewAuditWorker(q, &fakeRunner{}, newFakeTracker())

			go w.Run(ctx)
			convey.So(q.Close(), convey.ShouldBeNil)

			shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		ctx := context.Background()

		convey.Convey("When several jobs flow through", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(16))
			runner := &fakeRunner{}
			tracker := newFakeTracker()
			pool := worker.NewPool(3, q, runner, tracker)

			pool.Start(ctx)
			for _, id := range []string{"run-1", "run-2", "run-3", "run-4", "run-5"} {
				convey.So(q.Enqueue(ctx, worker.Job{RunID: id}), convey.ShouldBeTrue)
			}

			convey.So(waitFor(func() bool {
				completed, _ := tracker.snapshot()
				return completed == 5
			}), convey.ShouldBeTrue)
			convey.So(runner.callCount(), convey.ShouldEqual, 5)

			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When shutdown is called twice", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			pool := worker.NewPool(2, q, &fakeRunner{}, newFakeTracker())

			pool.Start(ctx)
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When the worker count is invalid it falls back to the default", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			pool := worker.NewPool(0, q, &fakeRunner{}, newFakeTracker())

			pool.Start(ctx)
			convey.So(pool.Shutdown(ctx), convey.ShouldBeNil)
		})
	})
}
