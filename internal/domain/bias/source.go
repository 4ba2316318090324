package bias

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// Risk factor tokens emitted by the source heuristics.
const (
	RiskLowVariance      = "suspiciously_low_variance"
	RiskExtremeMean      = "extreme_mean_score"
	RiskLimitedRange     = "limited_score_range"
	RiskBiasedSourceName = "potentially_biased_source_name"
)

// Source heuristic thresholds.
const (
	lowVarianceCeil     = 5.0
	lowVarianceMinCount = 5
	extremeMeanLow      = 20.0
	extremeMeanHigh     = 80.0
	limitedRangeCeil    = 15.0
	riskFactorPoints    = 25.0
	highRiskFactorCount = 2
)

// biasedNameKeywords flag a source by name alone, case-insensitively.
var biasedNameKeywords = []string{"partisan", "conservative", "liberal", "progressive", "activist"}

// SourceProfile is the per-source analysis record.
type SourceProfile struct {
	Source      string             `json:"source"`
	Count       int                `json:"count"`
	Mean        float64            `json:"mean"`
	Variance    float64            `json:"variance"`
	ScoreRange  float64            `json:"score_range"`
	TopicMeans  map[string]float64 `json:"topic_means"`
	TopicCounts map[string]int     `json:"topic_counts"`
	RiskFactors []string           `json:"risk_factors"`
	RiskLevel   model.Severity     `json:"risk_level"`
	RiskScore   float64            `json:"risk_score"`
}

// SourceAnalysis is the detail payload of the source-bias probe.
type SourceAnalysis struct {
	Sources    []SourceProfile `json:"sources"`
	Suspicious []string        `json:"suspicious_sources,omitempty"`
}

// sourceProbe partitions statements by source and classifies each source
// with enough samples through four independent risk heuristics. Each
// heuristic contributes one risk-factor token; the risk level and score
// follow from the factor count alone.
func (a *Analytics) sourceProbe(statements []model.Statement) model.ProbeResult {
	bySource := make(map[string][]model.Statement)
	for _, s := range statements {
		if s.Source == "" {
			continue
		}
		bySource[s.Source] = append(bySource[s.Source], s)
	}

	names := make([]string, 0, len(bySource))
	for name, group := range bySource {
		if len(group) >= a.cfg.MinSourceSampleSize {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return model.ProbeResult{
			TestType:    TestSource,
			Description: "No single source should dominate or skew scoring",
			Status:      model.ProbeSkipped,
			SkipReason:  fmt.Sprintf("no source has at least %d statements", a.cfg.MinSourceSampleSize),
		}
	}

	analysis := SourceAnalysis{}
	var riskSum float64
	var highRisk int
	var problematic []model.ProblematicStatement
	for _, name := range names {
		profile := profileSource(name, bySource[name])
		riskSum += profile.RiskScore
		if profile.RiskLevel != model.SeverityLow {
			analysis.Suspicious = append(analysis.Suspicious, name)
			problematic = append(problematic, model.ProblematicStatement{
				StatementID: name,
				Deviation:   profile.RiskScore,
				Severity:    profile.RiskLevel,
				Detail:      fmt.Sprintf("source %q: %s", name, strings.Join(profile.RiskFactors, ", ")),
			})
		}
		if profile.RiskLevel == model.SeverityHigh {
			highRisk++
		}
		analysis.Sources = append(analysis.Sources, profile)
	}

	score := math.Max(0, 100-riskSum/float64(len(names)))
	return model.ProbeResult{
		TestType:    TestSource,
		Description: "No single source should dominate or skew scoring",
		Score:       score,
		Passed:      highRisk == 0,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}
}

// profileSource computes the per-source statistics and risk classification.
func profileSource(name string, group []model.Statement) SourceProfile {
	scores := make([]float64, len(group))
	minScore, maxScore := math.Inf(1), math.Inf(-1)
	topicMeansSum := make(map[string]float64)
	topicCounts := make(map[string]int)
	for i, s := range group {
		scores[i] = s.Position
		minScore = math.Min(minScore, s.Position)
		maxScore = math.Max(maxScore, s.Position)
		topicMeansSum[s.Topic] += s.Position
		topicCounts[s.Topic]++
	}
	topicMeans := make(map[string]float64, len(topicCounts))
	for topic, sum := range topicMeansSum {
		topicMeans[topic] = sum / float64(topicCounts[topic])
	}

	profile := SourceProfile{
		Source:      name,
		Count:       len(group),
		Mean:        stats.Mean(scores),
		Variance:    stats.PopulationVariance(scores),
		ScoreRange:  maxScore - minScore,
		TopicMeans:  topicMeans,
		TopicCounts: topicCounts,
	}

	if profile.Variance < lowVarianceCeil && profile.Count >= lowVarianceMinCount {
		profile.RiskFactors = append(profile.RiskFactors, RiskLowVariance)
	}
	if profile.Mean < extremeMeanLow || profile.Mean > extremeMeanHigh {
		profile.RiskFactors = append(profile.RiskFactors, RiskExtremeMean)
	}
	if profile.ScoreRange < limitedRangeCeil && profile.Count >= lowVarianceMinCount {
		profile.RiskFactors = append(profile.RiskFactors, RiskLimitedRange)
	}
	lower := strings.ToLower(name)
	for _, keyword := range biasedNameKeywords {
		if strings.Contains(lower, keyword) {
			profile.RiskFactors = append(profile.RiskFactors, RiskBiasedSourceName)
			break
		}
	}

	factors := len(profile.RiskFactors)
	profile.RiskScore = math.Min(100, float64(factors)*riskFactorPoints)
	switch {
	case factors > highRiskFactorCount:
		profile.RiskLevel = model.SeverityHigh
	case factors > 0:
		profile.RiskLevel = model.SeverityMedium
	default:
		profile.RiskLevel = model.SeverityLow
	}
	return profile
}
