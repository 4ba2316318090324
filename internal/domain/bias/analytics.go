// Package bias runs the statistical bias probes over already-recorded
// statement scores: party skew, source skew, temporal drift, and scoring
// consistency across semantically similar statements. None of these
// probes calls the scoring function.
package bias

import (
	"context"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
	"github.com/sciencedex/scorecard-audit/pkg/metrics"
)

// Probe test type keys.
const (
	TestParty    = "party_bias"
	TestSource   = "source_bias"
	TestTemporal = "temporal_drift"
	TestSemantic = "semantic_consistency"
)

// Analytics runs the four bias probes. All probes are independent and
// side-effect-free; a skipped probe (insufficient data) is reported with
// an explicit skipped status, never as a zero score.
type Analytics struct {
	cfg    Config
	logger logger.Logger
}

// NewAnalytics creates an Analytics runner with configuration options.
func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Named("bias")
	}
	return a
}

// Run executes all four probes over the statement set.
func (a *Analytics) Run(ctx context.Context, statements []model.Statement) (model.BiasSummary, error) {
	if len(statements) == 0 {
		return model.BiasSummary{}, ErrNoStatements
	}

	probes := []func([]model.Statement) model.ProbeResult{
		a.partyProbe,
		a.sourceProbe,
		a.temporalProbe,
		a.semanticProbe,
	}

	var summary model.BiasSummary
	for _, probe := range probes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := probe(statements)
		switch result.Status {
		case model.ProbeSkipped:
			a.logger.Info(ctx, "bias probe skipped",
				logger.String("probe", result.TestType),
				logger.String("reason", result.SkipReason),
			)
			metrics.RecordProbeSkipped(result.TestType)
		case model.ProbeCompleted:
			metrics.RecordProbeCompleted(result.TestType)
		case model.ProbeFailed:
			metrics.RecordProbeFailure(result.TestType)
		}
		summary.Probes = append(summary.Probes, result)
	}
	return summary, nil
}
