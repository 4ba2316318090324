package independence

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/scoring"
)

// BatchAnalysis is the detail payload of the batch-processing probe.
type BatchAnalysis struct {
	MaxDeviation        float64            `json:"max_deviation"`
	DeviationByBatch    map[int]float64    `json:"deviation_by_batch_size"`
	WorstStatementByBat map[int]string     `json:"worst_statement_by_batch_size"`
	DeviationByStmt     map[string]float64 `json:"deviation_by_statement"`
}

// batchProbe scores every statement individually and again inside
// contiguous batches of each configured size, comparing per-statement
// scores. A deviation means batch processing changes scoring outcomes.
func (v *Validator) batchProbe(ctx context.Context, statements []model.Statement, probe scoring.Probe, _ *rand.Rand) (model.ProbeResult, error) {
	individual, err := v.scoreEach(ctx, probe, statements, func(int) scoring.Options {
		return scoring.Options{BatchSize: 1}
	})
	if err != nil {
		return model.ProbeResult{}, fmt.Errorf("individual pass: %w", err)
	}

	analysis := BatchAnalysis{
		DeviationByBatch:    make(map[int]float64, len(v.cfg.BatchSizes)),
		WorstStatementByBat: make(map[int]string, len(v.cfg.BatchSizes)),
		DeviationByStmt:     make(map[string]float64, len(statements)),
	}
	var problematic []model.ProblematicStatement
	flagged := make(map[string]bool)

	for _, size := range v.cfg.BatchSizes {
		for start := 0; start < len(statements); start += size {
			end := start + size
			if end > len(statements) {
				end = len(statements)
			}
			batch := statements[start:end]
			scores, berr := v.scoreEach(ctx, probe, batch, func(int) scoring.Options {
				return scoring.Options{BatchSize: size}
			})
			if berr != nil {
				return model.ProbeResult{}, fmt.Errorf("batch size %d: %w", size, berr)
			}
			for i, s := range batch {
				deviation := math.Abs(individual[start+i] - scores[i])
				if deviation > analysis.DeviationByBatch[size] {
					analysis.DeviationByBatch[size] = deviation
					analysis.WorstStatementByBat[size] = s.ID
				}
				if deviation > analysis.DeviationByStmt[s.ID] {
					analysis.DeviationByStmt[s.ID] = deviation
				}
				if deviation > analysis.MaxDeviation {
					analysis.MaxDeviation = deviation
				}
				if deviation > v.cfg.BatchProcessingVariance && !flagged[s.ID] {
					flagged[s.ID] = true
					problematic = append(problematic, model.ProblematicStatement{
						StatementID: s.ID,
						Deviation:   deviation,
						Severity:    severityFor(deviation, v.cfg.BatchProcessingVariance),
						Detail:      fmt.Sprintf("batch of %d shifted score by %.2f points", size, deviation),
					})
				}
			}
		}
	}

	return model.ProbeResult{
		TestType:    TestBatch,
		Description: "Batch-processed scoring must match statement-at-a-time scoring",
		Score:       linearScore(analysis.MaxDeviation, v.cfg.BatchProcessingVariance),
		Passed:      analysis.MaxDeviation <= v.cfg.BatchProcessingVariance,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}, nil
}
