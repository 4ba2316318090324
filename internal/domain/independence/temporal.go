package independence

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
)

// Processing-method labels passed to the scoring probe.
const (
	methodChronological = "chronological"
	methodReverse       = "reverse_chronological"
	methodRandom        = "random"
	methodByCandidate   = "by_candidate"
	methodByTopic       = "by_topic"
)

// TemporalAnalysis is the detail payload of the temporal-sequence probe.
type TemporalAnalysis struct {
	MaxDeviation      float64            `json:"max_deviation"`
	DeviationByMethod map[string]float64 `json:"deviation_by_method"`
}

// temporalProbe scores the full set under five processing orders, using
// the random order as the baseline. A statement whose score depends on
// the processing order is tied to sequence position rather than content.
func (v *Validator) temporalProbe(ctx context.Context, statements []model.Statement, probe scoring.Probe, rng *rand.Rand) (model.ProbeResult, error) {
	n := len(statements)

	random := make([]model.Statement, n)
	for i, idx := range rng.Perm(n) {
		random[i] = statements[idx]
	}

	orderings := []struct {
		method string
		order  []model.Statement
	}{
		{methodChronological, sortedBy(statements, func(a, b model.Statement) bool { return a.Date.Before(b.Date) })},
		{methodReverse, sortedBy(statements, func(a, b model.Statement) bool { return b.Date.Before(a.Date) })},
		{methodRandom, random},
		{methodByCandidate, sortedBy(statements, func(a, b model.Statement) bool { return a.Candidate < b.Candidate })},
		{methodByTopic, sortedBy(statements, func(a, b model.Statement) bool { return a.Topic < b.Topic })},
	}

	scoresByMethod := make(map[string]map[string]float64, len(orderings))
	for _, o := range orderings {
		scores, err := v.scoreEach(ctx, probe, o.order, func(i int) scoring.Options {
			return scoring.Options{
				SequencePosition: i,
				TotalInSequence:  n,
				ProcessingMethod: o.method,
			}
		})
		if err != nil {
			return model.ProbeResult{}, fmt.Errorf("%s ordering: %w", o.method, err)
		}
		byID := make(map[string]float64, n)
		for i, s := range o.order {
			byID[s.ID] = scores[i]
		}
		scoresByMethod[o.method] = byID
	}

	analysis := TemporalAnalysis{
		DeviationByMethod: make(map[string]float64, len(orderings)-1),
	}
	var problematic []model.ProblematicStatement
	flagged := make(map[string]bool)
	baseline := scoresByMethod[methodRandom]
	for _, o := range orderings {
		if o.method == methodRandom {
			continue
		}
		for _, s := range statements {
			deviation := math.Abs(scoresByMethod[o.method][s.ID] - baseline[s.ID])
			if deviation > analysis.DeviationByMethod[o.method] {
				analysis.DeviationByMethod[o.method] = deviation
			}
			if deviation > analysis.MaxDeviation {
				analysis.MaxDeviation = deviation
			}
			if deviation > v.cfg.TemporalSequenceBias && !flagged[s.ID] {
				flagged[s.ID] = true
				problematic = append(problematic, model.ProblematicStatement{
					StatementID: s.ID,
					Deviation:   deviation,
					Severity:    severityFor(deviation, v.cfg.TemporalSequenceBias),
					Detail:      fmt.Sprintf("%s ordering shifted score by %.2f points", o.method, deviation),
				})
			}
		}
	}

	return model.ProbeResult{
		TestType:    TestTemporal,
		Description: "Scores must not depend on when in a processing sequence a statement is scored",
		Score:       linearScore(analysis.MaxDeviation, v.cfg.TemporalSequenceBias),
		Passed:      analysis.MaxDeviation <= v.cfg.TemporalSequenceBias,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}, nil
}

// sortedBy returns a stable-sorted copy without mutating the input.
func sortedBy(statements []model.Statement, less func(a, b model.Statement) bool) []model.Statement {
	out := make([]model.Statement, len(statements))
	copy(out, statements)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
