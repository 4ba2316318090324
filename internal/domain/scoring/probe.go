// Package scoring defines the contract for the externally supplied
// statement scoring function and the option record probes use to vary
// scoring conditions.
package scoring

import (
	"context"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Score bounds. Every probe returns a value in this range.
const (
	MinScore = 0
	MaxScore = 100
)

// Options configures a single scoring call. All fields are optional; the
// zero value requests plain scoring with whatever context the scorer keeps.
type Options struct {
	// Isolated requests scoring with no shared context.
	Isolated bool

	// Anonymized requests scoring with identity stripped.
	Anonymized bool

	// PriorStatements simulates preceding context, in order.
	PriorStatements []model.Statement

	// BatchSize simulates batch-processed scoring. 1 means individual.
	BatchSize int

	// SequencePosition, TotalInSequence and ProcessingMethod simulate a
	// position within an ordered scoring pass.
	SequencePosition int
	TotalInSequence  int
	ProcessingMethod string
}

// Probe computes an alignment score in [0,100] for a statement under the
// given options. Implementations may call out to an external service; they
// must honor ctx for cancellation. Independent calls may be issued
// concurrently, so implementations must be safe for concurrent use.
type Probe interface {
	Score(ctx context.Context, stmt model.Statement, opts Options) (float64, error)
}

// ProbeFunc adapts a plain function to the Probe interface.
type ProbeFunc func(ctx context.Context, stmt model.Statement, opts Options) (float64, error)

// Score implements Probe.
func (f ProbeFunc) Score(ctx context.Context, stmt model.Statement, opts Options) (float64, error) {
	return f(ctx, stmt, opts)
}

// PositionProbe returns each statement's recorded position unchanged,
// ignoring every option. It is the identity scorer used by the demo CLI
// and by tests that need a probe invariant to scoring conditions.
type PositionProbe struct{}

// NewPositionProbe creates the identity probe.
func NewPositionProbe() *PositionProbe { return &PositionProbe{} }

// Score returns the recorded position clamped to the score range.
func (p *PositionProbe) Score(ctx context.Context, stmt model.Statement, _ Options) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return clamp(stmt.Position), nil
}

func clamp(v float64) float64 {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
