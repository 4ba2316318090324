package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// defaultRetention caps how many runs the store keeps before evicting
// the oldest finished ones.
const defaultRetention = 512

// MemStore is an in-memory Store keyed by run id with bounded retention.
// Eviction is FIFO over finished runs; queued and running runs are never
// evicted so an accepted job can always report its outcome.
type MemStore struct {
	mu        sync.RWMutex
	runs      map[string]*list.Element
	order     *list.List // of model.RunRecord, oldest first
	retention int
	now       func() time.Time
}

// NewMemStore creates an in-memory run store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		runs:      make(map[string]*list.Element),
		order:     list.New(),
		retention: defaultRetention,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new run in the queued state.
func (s *MemStore) Create(_ context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; ok {
		return ErrAlreadyExists
	}
	elem := s.order.PushBack(model.RunRecord{
		RunID:       runID,
		Status:      model.RunQueued,
		SubmittedAt: s.now(),
	})
	s.runs[runID] = elem
	s.evictLocked()
	return nil
}

// MarkRunning transitions a run to the running state.
func (s *MemStore) MarkRunning(_ context.Context, runID string) error {
	return s.update(runID, func(rec *model.RunRecord) {
		rec.Status = model.RunRunning
	})
}

// Complete stores the finished report and marks the run completed.
func (s *MemStore) Complete(_ context.Context, runID string, report *model.AuditReport) error {
	return s.update(runID, func(rec *model.RunRecord) {
		rec.Status = model.RunCompleted
		rec.Report = report
	})
}

// Fail marks the run failed with the given reason.
func (s *MemStore) Fail(_ context.Context, runID string, reason string) error {
	return s.update(runID, func(rec *model.RunRecord) {
		rec.Status = model.RunFailed
		rec.Error = reason
	})
}

// Get returns the current record for a run.
func (s *MemStore) Get(_ context.Context, runID string) (model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	elem, ok := s.runs[runID]
	if !ok {
		return model.RunRecord{}, ErrNotFound
	}
	return elem.Value.(model.RunRecord), nil
}

// Count returns the number of runs currently tracked.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *MemStore) update(runID string, mutate func(*model.RunRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.runs[runID]
	if !ok {
		return ErrNotFound
	}
	rec := elem.Value.(model.RunRecord)
	mutate(&rec)
	elem.Value = rec
	return nil
}

// evictLocked drops the oldest finished runs until the store fits the
// retention limit. Caller must hold the write lock.
func (s *MemStore) evictLocked() {
	for len(s.runs) > s.retention {
		evicted := false
		for elem := s.order.Front(); elem != nil; elem = elem.Next() {
			rec := elem.Value.(model.RunRecord)
			if rec.Status == model.RunCompleted || rec.Status == model.RunFailed {
				s.order.Remove(elem)
				delete(s.runs, rec.RunID)
				evicted = true
				break
			}
		}
		if !evicted {
			// Everything left is in flight; let the store run over limit.
			return
		}
	}
}
