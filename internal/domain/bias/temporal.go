package bias

import (
	"fmt"
	"math"
	"sort"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// MonthlyScore is the mean recorded score for one calendar month.
type MonthlyScore struct {
	Month string  `json:"month"` // YYYY-MM
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// CandidateTrend is the per-candidate drift record.
type CandidateTrend struct {
	Candidate string            `json:"candidate"`
	Count     int               `json:"count"`
	Trend     stats.TrendResult `json:"trend"`
}

// TemporalDriftAnalysis is the detail payload of the temporal-drift probe.
type TemporalDriftAnalysis struct {
	Months          []MonthlyScore    `json:"months"`
	Trend           stats.TrendResult `json:"trend"`
	Volatility      float64           `json:"volatility"` // std dev of monthly means
	CandidateTrends []CandidateTrend  `json:"candidate_trends,omitempty"`
}

// temporalProbe buckets dated statements by calendar month and fits a
// linear trend over the monthly means. A significant slope means scoring
// standards drifted over time instead of staying anchored to content.
func (a *Analytics) temporalProbe(statements []model.Statement) model.ProbeResult {
	dated := datedStatements(statements)
	if len(dated) < a.cfg.MinTemporalSampleSize {
		return model.ProbeResult{
			TestType:    TestTemporal,
			Description: "Scoring standards must not drift over time",
			Status:      model.ProbeSkipped,
			SkipReason:  fmt.Sprintf("need at least %d dated statements, have %d", a.cfg.MinTemporalSampleSize, len(dated)),
		}
	}

	months := monthlySeries(dated)
	xs := make([]float64, len(months))
	ys := make([]float64, len(months))
	for i, m := range months {
		xs[i] = float64(i)
		ys[i] = m.Mean
	}

	analysis := TemporalDriftAnalysis{
		Months:     months,
		Trend:      stats.LinearTrend(xs, ys),
		Volatility: stats.StdDev(ys),
	}

	// Per-candidate drift for candidates with enough dated statements.
	byCandidate := make(map[string][]model.Statement)
	for _, s := range dated {
		byCandidate[s.Candidate] = append(byCandidate[s.Candidate], s)
	}
	candidates := make([]string, 0, len(byCandidate))
	for name, group := range byCandidate {
		if name != "" && len(group) >= a.cfg.MinCandidateSamples {
			candidates = append(candidates, name)
		}
	}
	sort.Strings(candidates)
	for _, name := range candidates {
		cMonths := monthlySeries(byCandidate[name])
		cxs := make([]float64, len(cMonths))
		cys := make([]float64, len(cMonths))
		for i, m := range cMonths {
			cxs[i] = float64(i)
			cys[i] = m.Mean
		}
		analysis.CandidateTrends = append(analysis.CandidateTrends, CandidateTrend{
			Candidate: name,
			Count:     len(byCandidate[name]),
			Trend:     stats.LinearTrend(cxs, cys),
		})
	}

	driftPenalty := math.Abs(analysis.Trend.Slope) * 5
	if analysis.Trend.Significant {
		driftPenalty = math.Abs(analysis.Trend.Slope) * 20
	}
	score := math.Max(0, 100-driftPenalty-analysis.Volatility)

	var problematic []model.ProblematicStatement
	if analysis.Trend.Significant {
		problematic = append(problematic, model.ProblematicStatement{
			StatementID: "monthly_trend",
			Deviation:   analysis.Trend.Slope,
			Severity:    model.SeverityMedium,
			Detail:      fmt.Sprintf("monthly mean score drifts %.2f points per month", analysis.Trend.Slope),
		})
	}

	return model.ProbeResult{
		TestType:    TestTemporal,
		Description: "Scoring standards must not drift over time",
		Score:       score,
		Passed:      !analysis.Trend.Significant,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}
}

func datedStatements(statements []model.Statement) []model.Statement {
	var dated []model.Statement
	for _, s := range statements {
		if !s.Date.IsZero() {
			dated = append(dated, s)
		}
	}
	return dated
}

// monthlySeries buckets statements by calendar month and returns the
// chronologically sorted monthly means.
func monthlySeries(statements []model.Statement) []MonthlyScore {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range statements {
		month := s.Date.Format("2006-01")
		sums[month] += s.Position
		counts[month]++
	}
	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	sort.Strings(months)

	series := make([]MonthlyScore, len(months))
	for i, month := range months {
		series[i] = MonthlyScore{
			Month: month,
			Mean:  sums[month] / float64(counts[month]),
			Count: counts[month],
		}
	}
	return series
}
