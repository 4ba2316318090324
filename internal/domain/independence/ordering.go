package independence

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// OrderingAnalysis is the detail payload of the ordering probe.
type OrderingAnalysis struct {
	Iterations          int                `json:"iterations"`
	MaxVariance         float64            `json:"max_variance"`
	MeanVariance        float64            `json:"mean_variance"`
	VarianceByStatement map[string]float64 `json:"variance_by_statement"`
}

// orderingProbe scores the full statement set under repeated uniformly
// random permutations, each statement isolated, and measures per-statement
// score variance across iterations. Any variance indicates the scorer
// carries state between calls.
func (v *Validator) orderingProbe(ctx context.Context, statements []model.Statement, probe scoring.Probe, rng *rand.Rand) (model.ProbeResult, error) {
	iterations := v.cfg.OrderingIterations
	recorded := make(map[string][]float64, len(statements))

	for iter := 0; iter < iterations; iter++ {
		perm := rng.Perm(len(statements))
		ordered := make([]model.Statement, len(statements))
		for i, idx := range perm {
			ordered[i] = statements[idx]
		}

		scores, err := v.scoreEach(ctx, probe, ordered, func(int) scoring.Options {
			return scoring.Options{Isolated: true}
		})
		if err != nil {
			return model.ProbeResult{}, fmt.Errorf("ordering iteration %d: %w", iter, err)
		}
		for i, s := range ordered {
			recorded[s.ID] = append(recorded[s.ID], scores[i])
		}
	}

	analysis := OrderingAnalysis{
		Iterations:          iterations,
		VarianceByStatement: make(map[string]float64, len(statements)),
	}
	var problematic []model.ProblematicStatement
	var varianceSum float64
	for _, s := range statements {
		variance := stats.PopulationVariance(recorded[s.ID])
		analysis.VarianceByStatement[s.ID] = variance
		varianceSum += variance
		if variance > analysis.MaxVariance {
			analysis.MaxVariance = variance
		}
		if variance > v.cfg.OrderVariance {
			problematic = append(problematic, model.ProblematicStatement{
				StatementID: s.ID,
				Deviation:   variance,
				Severity:    severityFor(variance, v.cfg.OrderVariance),
				Detail:      fmt.Sprintf("score variance %.2f across %d orderings", variance, iterations),
			})
		}
	}
	analysis.MeanVariance = varianceSum / float64(len(statements))

	return model.ProbeResult{
		TestType:    TestOrdering,
		Description: "Scores must not vary with the order statements are processed in",
		Score:       linearScore(analysis.MaxVariance, v.cfg.OrderVariance),
		Passed:      analysis.MaxVariance <= v.cfg.OrderVariance,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}, nil
}
