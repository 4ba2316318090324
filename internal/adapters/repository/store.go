// Package repository defines the audit run store interface and errors.
package repository

import (
	"context"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Store provides read/write access to audit run state.
type Store interface {
	// Create registers a new run in the queued state.
	// Returns ErrAlreadyExists if the run id is already tracked.
	Create(ctx context.Context, runID string) error

	// MarkRunning transitions a run to the running state.
	MarkRunning(ctx context.Context, runID string) error

	// Complete stores the finished report and marks the run completed.
	Complete(ctx context.Context, runID string, report *model.AuditReport) error

	// Fail marks the run failed with the given reason.
	Fail(ctx context.Context, runID string, reason string) error

	// Get returns the current record for a run.
	// Returns ErrNotFound if the run is unknown.
	Get(ctx context.Context, runID string) (model.RunRecord, error)

	// Count returns the number of runs currently tracked.
	Count(ctx context.Context) int
}
