package independence

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
)

// PriorInfluenceAnalysis is the detail payload of the prior-statement
// influence probe.
type PriorInfluenceAnalysis struct {
	MaxInfluence         float64            `json:"max_influence"`
	InfluenceByStatement map[string]float64 `json:"influence_by_statement"`
	PositiveContextSize  int                `json:"positive_context_size"`
	NegativeContextSize  int                `json:"negative_context_size"`
}

// priorInfluenceProbe compares isolated scores against scores taken with
// positive, negative, and mixed preceding context. Any spread between the
// isolated score and a contextual score means prior statements leak into
// the current one.
func (v *Validator) priorInfluenceProbe(ctx context.Context, statements []model.Statement, probe scoring.Probe, _ *rand.Rand) (model.ProbeResult, error) {
	positive := pickByPosition(statements, func(p float64) bool { return p > positiveContextFloor })
	negative := pickByPosition(statements, func(p float64) bool { return p < negativeContextCeil })

	isolated, err := v.scoreEach(ctx, probe, statements, func(int) scoring.Options {
		return scoring.Options{Isolated: true}
	})
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("isolated pass: %w", err)
	}

	// Contextual passes. Context lists that turn out empty are skipped:
	// there is nothing to influence the call with.
	contextual := make([][]float64, 0, 3)
	if len(positive) > 0 {
		scores, perr := v.scoreEach(ctx, probe, statements, func(int) scoring.Options {
			return scoring.Options{PriorStatements: positive}
		})
		if perr != nil {
			return model.ProbeResult{}, fmt.Errorf("positive-context pass: %w", perr)
		}
		contextual = append(contextual, scores)
	}
	if len(negative) > 0 {
		scores, nerr := v.scoreEach(ctx, probe, statements, func(int) scoring.Options {
			return scoring.Options{PriorStatements: negative}
		})
		if nerr != nil {
			return model.ProbeResult{}, fmt.Errorf("negative-context pass: %w", nerr)
		}
		contextual = append(contextual, scores)
	}
	mixed, err := v.scoreEach(ctx, probe, statements, func(i int) scoring.Options {
		return scoring.Options{PriorStatements: precedingStatements(statements, i, mixedContextSize)}
	})
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("mixed-context pass: %w", err)
	}

	analysis := PriorInfluenceAnalysis{
		InfluenceByStatement: make(map[string]float64, len(statements)),
		PositiveContextSize:  len(positive),
		NegativeContextSize:  len(negative),
	}
	var problematic []model.ProblematicStatement
	for i, s := range statements {
		var influence float64
		for _, pass := range contextual {
			influence = math.Max(influence, math.Abs(isolated[i]-pass[i]))
		}
		if i > 0 { // the first statement has no preceding context
			influence = math.Max(influence, math.Abs(isolated[i]-mixed[i]))
		}
		analysis.InfluenceByStatement[s.ID] = influence
		if influence > analysis.MaxInfluence {
			analysis.MaxInfluence = influence
		}
		if influence > v.cfg.PriorStatementInfluence {
			problematic = append(problematic, model.ProblematicStatement{
				StatementID: s.ID,
				Deviation:   influence,
				Severity:    severityFor(influence, v.cfg.PriorStatementInfluence),
				Detail:      fmt.Sprintf("context shifted score by %.2f points", influence),
			})
		}
	}

	return model.ProbeResult{
		TestType:    TestPriorInfluence,
		Description: "Scores must not shift with the statements scored before them",
		Score:       linearScore(analysis.MaxInfluence, v.cfg.PriorStatementInfluence),
		Passed:      analysis.MaxInfluence <= v.cfg.PriorStatementInfluence,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}, nil
}

// pickByPosition returns the first contextSampleSize statements, in input
// order, whose recorded position matches the predicate.
func pickByPosition(statements []model.Statement, match func(float64) bool) []model.Statement {
	var picked []model.Statement
	for _, s := range statements {
		if match(s.Position) {
			picked = append(picked, s)
			if len(picked) == contextSampleSize {
				break
			}
		}
	}
	return picked
}

// precedingStatements returns up to n statements immediately before index i.
func precedingStatements(statements []model.Statement, i, n int) []model.Statement {
	start := i - n
	if start < 0 {
		start = 0
	}
	return statements[start:i]
}
