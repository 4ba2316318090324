package independence

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// ContextualAnalysis is the detail payload of the contextual-independence
// probe.
type ContextualAnalysis struct {
	MaxContextualInfluence float64            `json:"max_contextual_influence"`
	InfluenceByStatement   map[string]float64 `json:"influence_by_statement"`
	AlternateVariance      map[string]float64 `json:"alternate_variance"`
}

// contextualProbe scores each statement three ways: as recorded, as an
// anonymized copy with identity fields replaced by placeholder tokens, and
// as up to three copies re-attributed to other statements' identities with
// the content unchanged. A gap between the original and anonymized score
// means attribution leaks into scoring.
func (v *Validator) contextualProbe(ctx context.Context, statements []model.Statement, probe scoring.Probe, _ *rand.Rand) (model.ProbeResult, error) {
	original, err := v.scoreEach(ctx, probe, statements, func(int) scoring.Options {
		return scoring.Options{}
	})
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("original pass: %w", err)
	}

	anonymizedCopies := make([]model.Statement, len(statements))
	for i, s := range statements {
		anonymizedCopies[i] = s.Anonymized()
	}
	anonymized, err := v.scoreEach(ctx, probe, anonymizedCopies, func(int) scoring.Options {
		return scoring.Options{Anonymized: true}
	})
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("anonymized pass: %w", err)
	}

	analysis := ContextualAnalysis{
		InfluenceByStatement: make(map[string]float64, len(statements)),
		AlternateVariance:    make(map[string]float64, len(statements)),
	}
	var problematic []model.ProblematicStatement
	for i, s := range statements {
		// Alternate-attribution copies: identity swapped in from the next
		// statements in the set, content untouched.
		var alternates []model.Statement
		for offset := 1; offset <= alternateContextCount && offset < len(statements); offset++ {
			donor := statements[(i+offset)%len(statements)]
			alternates = append(alternates, s.WithContextFrom(donor))
		}
		var altScores []float64
		if len(alternates) > 0 {
			altScores, err = v.scoreEach(ctx, probe, alternates, func(int) scoring.Options {
				return scoring.Options{}
			})
			if err != nil {
				return model.ProbeResult{}, fmt.Errorf("alternate-context pass: %w", err)
			}
		}

		influence := math.Abs(original[i] - anonymized[i])
		analysis.InfluenceByStatement[s.ID] = influence
		analysis.AlternateVariance[s.ID] = stats.PopulationVariance(altScores)
		if influence > analysis.MaxContextualInfluence {
			analysis.MaxContextualInfluence = influence
		}
		if influence > v.cfg.ContextualBias {
			problematic = append(problematic, model.ProblematicStatement{
				StatementID: s.ID,
				Deviation:   influence,
				Severity:    severityFor(influence, v.cfg.ContextualBias),
				Detail:      fmt.Sprintf("anonymization shifted score by %.2f points", influence),
			})
		}
	}

	return model.ProbeResult{
		TestType:    TestContextual,
		Description: "Scores must not depend on who said a statement or where it was reported",
		Score:       linearScore(analysis.MaxContextualInfluence, v.cfg.ContextualBias),
		Passed:      analysis.MaxContextualInfluence <= v.cfg.ContextualBias,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}, nil
}
