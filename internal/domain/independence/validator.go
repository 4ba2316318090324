// Package independence runs the statement-independence probes: five
// statistical checks that a statement's score depends only on its own
// content, not on ordering, prior context, attribution, batching, or
// processing sequence.
package independence

import (
	"context"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
	"github.com/sciencedex/scorecard-audit/pkg/metrics"
)

// Probe test type keys.
const (
	TestOrdering       = "ordering_independence"
	TestPriorInfluence = "prior_statement_influence"
	TestContextual     = "contextual_independence"
	TestBatch          = "batch_processing_independence"
	TestTemporal       = "temporal_sequence_independence"
)

// Internal probe weights for the overall independence score. These are
// deliberately distinct from the top-level category weights used by the
// aggregation engine; the two levels must never be merged.
var probeWeights = map[string]float64{
	TestOrdering:       0.25,
	TestPriorInfluence: 0.20,
	TestContextual:     0.20,
	TestBatch:          0.20,
	TestTemporal:       0.15,
}

// recommendationThreshold is the probe score below which the fixed
// per-probe recommendation fires.
const recommendationThreshold = 80

/// probeRecommendations is a fixed lookup: each weak probe contributes
// exactly one recommendation with static text.
var probeRecommendations = map[string]model.Recommendation{
	TestOrdering: {
		Priority:       "high",
		Action:         "Score statements in isolated sessions with no shared state",
		Rationale:      "Scores varied across repeated random orderings of the same statements",
		ExpectedImpact: "Ordering variance drops to zero for content-identical inputs",
	},
	TestPriorInfluence: {
		Priority:       "high",
		Action:         "Clear conversational context between scoring calls",
		Rationale:      "Preceding statements shifted scores relative to isolated scoring",
		ExpectedImpact: "Isolated and in-context scores converge",
	},
	TestContextual: {
		Priority:       "medium",
		Action:         "Strip attribution metadata before scoring",
		Rationale:      "Anonymized or re-attributed copies scored differently than originals",
		ExpectedImpact: "Identical content scores identically regardless of attribution",
	},
	TestBatch: {
		Priority:       "medium",
		Action:         "Normalize batch scoring to match individual scoring",
		Rationale:      "Batched scoring deviated from statement-at-a-time scoring",
		ExpectedImpact: "Deviation between batch sizes stays within tolerance",
	},
	TestTemporal: {
		Priority:       "low",
		Action:         "Remove sequence-position features from the scoring path",
		Rationale:      "Scores depended on where a statement fell in the processing order",
		ExpectedImpact: "All processing orders produce the same per-statement scores",
	},
}

// Validator runs the five independence probes against a statement set and
// an externally supplied scoring probe.
type Validator struct {
	cfg    Config
	seed   int64
	logger logger.Logger
}

// New creates a Validator with configuration options.
func New(opts ...Option) *Validator {
	v := &Validator{
		cfg:  DefaultConfig(),
		seed: defaultSeed,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logger.Named("independence")
	}
	return v
}

// Run executes all five probes. Probe failures are isolated: a scoring
// error aborts only the failing probe, which is reported with a failed
// status; siblings keep their results. Run only returns an error for
// invalid input.
func (v *Validator) Run(ctx context.Context, statements []model.Statement, probe scoring.Probe) (model.IndependenceSummary, error) {
	if len(statements) == 0 {
		return model.IndependenceSummary{}, ErrNoStatements
	}
	if probe == nil {
		return model.IndependenceSummary{}, ErrNilProbe
	}

	rng := rand.New(rand.NewSource(v.seed)) //nolint:gosec // deterministic permutations for reproducible audits

	runs := []struct {
		testType string
		exec     func(context.Context, []model.Statement, scoring.Probe, *rand.Rand) (model.ProbeResult, error)
	}{
		{TestOrdering, v.orderingProbe},
		{TestPriorInfluence, v.priorInfluenceProbe},
		{TestContextual, v.contextualProbe},
		{TestBatch, v.batchProbe},
		{TestTemporal, v.temporalProbe},
	}

	summary := model.IndependenceSummary{Passed: true}
	for _, run := range runs {
		result, err := run.exec(ctx, statements, probe, rng)
		if err != nil {
			probeErr := scoring.NewProbeError(run.testType, err)
			v.logger.Error(ctx, "independence probe failed",
				logger.String("probe", run.testType),
				logger.Error(probeErr),
			)
			metrics.RecordProbeFailure(run.testType)
			result = model.ProbeResult{
				TestType: run.testType,
				Status:   model.ProbeFailed,
				Error:    probeErr.Error(),
			}
		} else {
			metrics.RecordProbeCompleted(run.testType)
		}
		summary.Probes = append(summary.Probes, result)
		if result.Ran() && !result.Passed {
			summary.Passed = false
		}
	}

	summary.Score = overallScore(summary.Probes)
	summary.Recommendations = recommend(summary.Probes)
	return summary, nil
}

// overallScore is the weighted average over the probes that completed,
// with weights renormalized so missing probes are excluded from both
// numerator and denominator.
func overallScore(probes []model.ProbeResult) float64 {
	var weighted, total float64
	for _, p := range probes {
		if !p.Ran() {
			continue
		}
		w := probeWeights[p.TestType]
		weighted += p.Score * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// recommend emits the fixed recommendation for every completed probe
// scoring below the recommendation threshold, in probe order.
func recommend(probes []model.ProbeResult) []model.Recommendation {
	var recs []model.Recommendation
	for _, p := range probes {
		if !p.Ran() || p.Score >= recommendationThreshold {
			continue
		}
		if rec, ok := probeRecommendations[p.TestType]; ok {
			recs = append(recs, rec)
		}
	}
	return recs
}

// linearScore maps a measured deviation onto [0,100] against a threshold:
// zero deviation scores 100, deviation at the threshold scores 0.
func linearScore(measured, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}
	return math.Max(0, 100-(measured/threshold)*100)
}

// severityFor grades a deviation against a threshold.
func severityFor(deviation, threshold float64) model.Severity {
	if deviation > 2*threshold {
		return model.SeverityHigh
	}
	return model.SeverityMedium
}

// scoreEach scores every statement concurrently, bounded by the configured
// concurrency, preserving input order in the returned slice. The first
// scoring error cancels the remaining calls and is returned.
func (v *Validator) scoreEach(ctx context.Context, probe scoring.Probe, statements []model.Statement, optsFor func(i int) scoring.Options) ([]float64, error) {
	scores := make([]float64, len(statements))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.cfg.Concurrency)
	for i := range statements {
		i := i
		g.Go(func() error {
			score, err := probe.Score(gctx, statements[i], optsFor(i))
			if err != nil {
				return err
			}
			metrics.RecordScoringCall()
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
