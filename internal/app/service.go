// Package service provides the audit pipeline service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	jobqueue "github.com/sciencedex/scorecard-audit/internal/adapters/mq/queue"
	workerpool "github.com/sciencedex/scorecard-audit/internal/adapters/mq/worker"
	"github.com/sciencedex/scorecard-audit/internal/adapters/repository"
	"github.com/sciencedex/scorecard-audit/internal/domain/aggregate"
	"github.com/sciencedex/scorecard-audit/internal/domain/bias"
	"github.com/sciencedex/scorecard-audit/internal/domain/independence"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
	"github.com/sciencedex/scorecard-audit/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWorkerCount  = 4
	defaultQueueSize    = 256
	defaultRetention    = 512
	defaultAuditTimeout = 2 * time.Minute
)

// Service runs audit pipelines, synchronously or via the job queue.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	queue jobqueue.Queue
	pool  *workerpool.Pool
	probe scoring.Probe

	// Configuration
	workerCount     int
	queueSize       int
	retention       int
	auditTimeout    time.Duration
	independenceCfg independence.Config
	biasCfg         bias.Config
	rateLimit       float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of audit workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithReportRetention caps how many finished runs the store keeps.
func WithReportRetention(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.retention = n
		}
	}
}

// WithAuditTimeout bounds the wall-clock duration of one audit run.
func WithAuditTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.auditTimeout = d
		}
	}
}

// WithIndependenceConfig replaces the independence probe thresholds.
func WithIndependenceConfig(cfg independence.Config) Option {
	return func(s *Service) {
		s.independenceCfg = cfg
	}
}

// WithBiasConfig replaces the bias analytics parameters.
func WithBiasConfig(cfg bias.Config) Option {
	return func(s *Service) {
		s.biasCfg = cfg
	}
}

// WithProbe sets the scoring probe audits run against.
func WithProbe(p scoring.Probe) Option {
	return func(s *Service) {
		if p != nil {
			s.probe = p
		}
	}
}

// WithScoringRateLimit caps scoring calls per second; zero disables
// limiting.
func WithScoringRateLimit(callsPerSecond float64) Option {
	return func(s *Service) {
		s.rateLimit = callsPerSecond
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     defaultWorkerCount,
		queueSize:       defaultQueueSize,
		retention:       defaultRetention,
		auditTimeout:    defaultAuditTimeout,
		independenceCfg: independence.DefaultConfig(),
		biasCfg:         bias.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.probe == nil {
		s.probe = scoring.NewSyntheticProbe()
	}
	if s.rateLimit > 0 {
		s.probe = scoring.NewRateLimitedProbe(s.probe, s.rateLimit, 1)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if err := s.independenceCfg.Validate(); err != nil {
		return fmt.Errorf("independence config: %w", err)
	}
	if err := s.biasCfg.Validate(); err != nil {
		return fmt.Errorf("bias config: %w", err)
	}

	s.store = repository.NewMemStore(repository.WithRetention(s.retention))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "audit service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("retention", s.retention),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping audit service...")

	if q, ok := s.queue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "audit service stopped")
}

// Submit validates and enqueues an audit request for asynchronous
// processing, returning the assigned run id. Returns ErrQueueFull when
// the queue cannot accept the job.
func (s *Service) Submit(ctx context.Context, req model.AuditRequest) (string, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	if len(req.Statements) == 0 {
		return "", independence.ErrNoStatements
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	if err := s.store.Create(ctx, req.RunID); err != nil {
		return "", err
	}
	if !s.queue.Enqueue(ctx, req) {
		if err := s.store.Fail(ctx, req.RunID, ErrQueueFull.Error()); err != nil {
			s.logger.Error(ctx, "failed to mark rejected run",
				logger.String("runID", req.RunID),
				logger.Error(err),
			)
		}
		return "", ErrQueueFull
	}

	s.logger.Info(ctx, "audit run accepted",
		logger.String("runID", req.RunID),
		logger.Int("statements", len(req.Statements)),
	)
	return req.RunID, nil
}

// RunAudit executes one audit pipeline synchronously: the independence
// probes and the bias analytics run concurrently, then the aggregation
// engine merges their results with any externally supplied categories.
func (s *Service) RunAudit(ctx context.Context, req model.AuditRequest) (*model.AuditReport, error) {
	if len(req.Statements) == 0 {
		return nil, independence.ErrNoStatements
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, s.auditTimeout)
	defer cancel()

	metrics.RecordAuditStarted()
	start := time.Now()

	validatorOpts := []independence.Option{
		independence.WithConfig(s.independenceCfg),
	}
	if req.Seed != 0 {
		validatorOpts = append(validatorOpts, independence.WithSeed(req.Seed))
	}
	validator := independence.New(validatorOpts...)
	analytics := bias.NewAnalytics(bias.WithConfig(s.biasCfg))

	var (
		indep model.IndependenceSummary
		biasR model.BiasSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		indep, err = validator.Run(gctx, req.Statements, s.probe)
		return err
	})
	g.Go(func() error {
		var err error
		biasR, err = analytics.Run(gctx, req.Statements)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordAuditFailed()
		return nil, fmt.Errorf("audit pipeline: %w", err)
	}

	engine := aggregate.NewEngine()
	assessment := engine.Assess(aggregate.Inputs{
		Independence:                  &indep,
		Bias:                          &biasR,
		ControlPanelScore:             req.ControlPanelScore,
		CrossValidationBiasLikelihood: req.CrossValidationBiasLikelihood,
	})

	report := &model.AuditReport{
		RunID:          req.RunID,
		StartedAt:      start,
		FinishedAt:     time.Now(),
		StatementCount: len(req.Statements),
		CandidateCount: countCandidates(req.Statements),
		Independence:   indep,
		Bias:           biasR,
		Assessment:     &assessment,
	}

	metrics.RecordAuditCompleted(time.Since(start).Seconds())
	s.logger.Info(ctx, "audit run finished",
		logger.String("runID", report.RunID),
		logger.Float64("overallBiasScore", assessment.OverallBiasScore),
		logger.String("rating", string(assessment.Rating)),
	)
	return report, nil
}

// GetRun returns the stored record for a run.
func (s *Service) GetRun(ctx context.Context, runID string) (model.RunRecord, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.RunRecord{}, ErrNotStarted
	}
	return s.store.Get(ctx, runID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"retention":   s.retention,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["trackedRuns"] = s.store.Count(ctx)
	}
	return stats
}

// countCandidates counts distinct non-empty candidate names.
func countCandidates(statements []model.Statement) int {
	seen := make(map[string]struct{})
	for _, stmt := range statements {
		if stmt.Candidate != "" {
			seen[stmt.Candidate] = struct{}{}
		}
	}
	return len(seen)
}
