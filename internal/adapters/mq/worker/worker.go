// Package worker runs queued audit jobs through the pipeline and records
// their outcomes.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
	"github.com/sciencedex/scorecard-audit/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.AuditRequest

// Runner executes one audit job end to end.
type Runner interface {
	RunAudit(ctx context.Context, req model.AuditRequest) (*model.AuditReport, error)
}

// Tracker records run lifecycle transitions.
type Tracker interface {
	MarkRunning(ctx context.Context, runID string) error
	Complete(ctx context.Context, runID string, report *model.AuditReport) error
	Fail(ctx context.Context, runID string, reason string) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes audit jobs using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// AuditWorker implements Worker for processing audit jobs.
type AuditWorker struct {
	queue   Queue
	runner  Runner
	tracker Tracker
	name    string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewAuditWorker creates a new worker with configuration options.
func NewAuditWorker(queue Queue, runner Runner, tracker Tracker, opts ...Option) *AuditWorker {
	w := &AuditWorker{
		queue:    queue,
		runner:   runner,
		tracker:  tracker,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *AuditWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				// Channel closed, worker should stop.
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing audit job",
					logger.String("runID", job.RunID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *AuditWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob executes one audit job and records its outcome.
func (w *AuditWorker) processJob(ctx context.Context, job Job) error {
	if err := w.tracker.MarkRunning(ctx, job.RunID); err != nil {
		return fmt.Errorf("mark running %s: %w", job.RunID, err)
	}

	report, err := w.runner.RunAudit(ctx, job)
	if err != nil {
		if failErr := w.tracker.Fail(ctx, job.RunID, err.Error()); failErr != nil {
			w.logger.Error(ctx, "failed to record run failure",
				logger.String("runID", job.RunID),
				logger.Error(failErr),
			)
		}
		return fmt.Errorf("audit run %s: %w", job.RunID, err)
	}

	if err := w.tracker.Complete(ctx, job.RunID, report); err != nil {
		return fmt.Errorf("complete %s: %w", job.RunID, err)
	}
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*AuditWorker

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, runner Runner, tracker Tracker) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers:  make([]*AuditWorker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewAuditWorker(
			queue,
			runner,
			tracker,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
	}
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown drains the queue and shuts down the pool, honoring ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for _, worker := range p.workers {
		select {
		case <-worker.shutdown:
		default:
			close(worker.shutdown)
		}
	}
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	return nil
}
