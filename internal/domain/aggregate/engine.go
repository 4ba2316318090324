// Package aggregate merges probe-category results into one weighted
// assessment with a severity rating and prioritized recommendations.
package aggregate

import (
	"fmt"

	"github.com/sciencedex/scorecard-audit/internal/domain/bias"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/pkg/logger"
)

// Top-level category weights. These are intentionally different from the
// weights the independence validator applies internally to its five
// probes; the two aggregation levels are separate computations and must
// stay separate.
const (
	weightControlPanel    = 0.25
	weightCrossValidation = 0.20
	weightPartyBias       = 0.20
	weightSourceBias      = 0.15
	weightIndependence    = 0.20
)

// Rating breakpoints on the overall bias score.
const (
	ratingExcellentFloor = 90.0
	ratingGoodFloor      = 80.0
	ratingFairFloor      = 70.0
	ratingPoorFloor      = 60.0
)

// confidencePoints is awarded per major test category that executed.
const confidencePoints = 25.0

// criticalScoreFloor marks a category result as a critical issue.
const criticalScoreFloor = 60.0

// Inputs carries everything the engine can merge. Control-panel and
// cross-validation results are produced outside this pipeline and are
// optional; nil means the category was not attempted.
type Inputs struct {
	Independence *model.IndependenceSummary
	Bias         *model.BiasSummary

	// ControlPanelScore is the pre-computed reference-statement score.
	ControlPanelScore *float64

	// CrossValidationBiasLikelihood is the pre-computed attribution-bias
	// likelihood; consistency is derived as 100 minus this value.
	CrossValidationBiasLikelihood *float64
}

// Engine computes the aggregate assessment.
type Engine struct {
	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an aggregation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("aggregate")
	}
	return e
}

// category is one weighted input to the overall score.
type category struct {
	name      string
	weight    float64
	score     float64
	attempted bool // the category was expected to run
	ran       bool // the category actually produced a score
}

// Assess merges all available categories. Categories that did not run are
// excluded from both the numerator and denominator of the weighted
// average; they are never treated as zero.
func (e *Engine) Assess(in Inputs) model.AggregateAssessment {
	categories := e.collect(in)

	var weighted, total float64
	for _, c := range categories {
		if !c.ran {
			continue
		}
		weighted += c.score * c.weight
		total += c.weight
	}

	assessment := model.AggregateAssessment{}
	if total > 0 {
		assessment.OverallBiasScore = weighted / total
	}
	assessment.Rating = ratingFor(assessment.OverallBiasScore)
	assessment.Confidence = confidence(categories)

	assessment.KeyFindings = findings(categories)
	assessment.CriticalIssues = criticalIssues(categories, in)
	assessment.Recommendations = recommendations(categories, in)
	return assessment
}

// collect resolves the five weighted categories from the inputs.
func (e *Engine) collect(in Inputs) []category {
	categories := []category{
		{name: "control_panel", weight: weightControlPanel},
		{name: "cross_validation", weight: weightCrossValidation},
		{name: "party_bias", weight: weightPartyBias},
		{name: "source_bias", weight: weightSourceBias},
		{name: "independence", weight: weightIndependence},
	}

	if in.ControlPanelScore != nil {
		categories[0].attempted = true
		categories[0].ran = true
		categories[0].score = *in.ControlPanelScore
	}
	if in.CrossValidationBiasLikelihood != nil {
		categories[1].attempted = true
		categories[1].ran = true
		categories[1].score = 100 - *in.CrossValidationBiasLikelihood
	}
	if in.Bias != nil {
		for _, p := range in.Bias.Probes {
			switch p.TestType {
			case bias.TestParty:
				categories[2].attempted = true
				if p.Ran() {
					categories[2].ran = true
					categories[2].score = p.Score
				}
			case bias.TestSource:
				categories[3].attempted = true
				if p.Ran() {
					categories[3].ran = true
					categories[3].score = p.Score
				}
			}
		}
	}
	if in.Independence != nil {
		categories[4].attempted = true
		if len(in.Independence.Probes) > 0 {
			for _, p := range in.Independence.Probes {
				if p.Ran() {
					categories[4].ran = true
					categories[4].score = in.Independence.Score
					break
				}
			}
		}
	}
	return categories
}

// confidence awards points per major test category that executed
// (control panel, cross-validation, party bias, independence; source
// bias is informational) and averages over the categories attempted.
// This is average presence on a 0-100 scale, not a statistical interval.
func confidence(categories []category) float64 {
	major := map[string]bool{
		"control_panel":    true,
		"cross_validation": true,
		"party_bias":       true,
		"independence":     true,
	}
	var attempted, points float64
	for _, c := range categories {
		if !major[c.name] || !c.attempted {
			continue
		}
		attempted++
		if c.ran {
			points += confidencePoints
		}
	}
	if attempted == 0 {
		return 0
	}
	// Scale so a full house of executed categories reads 100.
	return points / attempted * (100 / confidencePoints)
}

// ratingFor maps an overall score onto the fixed ordinal tiers.
func ratingFor(score float64) model.Rating {
	switch {
	case score >= ratingExcellentFloor:
		return model.RatingExcellent
	case score >= ratingGoodFloor:
		return model.RatingGood
	case score >= ratingFairFloor:
		return model.RatingFair
	case score >= ratingPoorFloor:
		return model.RatingPoor
	default:
		return model.RatingCritical
	}
}

// findings renders one human-readable line per category.
func findings(categories []category) []string {
	var out []string
	for _, c := range categories {
		switch {
		case !c.attempted:
			out = append(out, fmt.Sprintf("%s: not evaluated", c.name))
		case !c.ran:
			out = append(out, fmt.Sprintf("%s: did not complete", c.name))
		default:
			out = append(out, fmt.Sprintf("%s: %.1f/100", c.name, c.score))
		}
	}
	return out
}

// criticalIssues surfaces failed probes and very low category scores.
func criticalIssues(categories []category, in Inputs) []model.CriticalIssue {
	var issues []model.CriticalIssue
	for _, c := range categories {
		if c.attempted && !c.ran {
			issues = append(issues, model.CriticalIssue{
				Probe:       c.name,
				Severity:    model.SeverityHigh,
				Description: "test category failed to produce a result",
			})
			continue
		}
		if c.ran && c.score < criticalScoreFloor {
			issues = append(issues, model.CriticalIssue{
				Probe:       c.name,
				Severity:    model.SeverityHigh,
				Description: fmt.Sprintf("score %.1f is below the critical floor of %.0f", c.score, criticalScoreFloor),
			})
		}
	}
	if in.Independence != nil {
		for _, p := range in.Independence.Probes {
			if p.Status == model.ProbeFailed {
				issues = append(issues, model.CriticalIssue{
					Probe:       p.TestType,
					Severity:    model.SeverityHigh,
					Description: p.Error,
				})
			}
		}
	}
	return issues
}

// recommendations runs the fixed rule list in order. Rules are
// independent: several can fire for the same weakness and every hit is
// kept, in rule order, without deduplication.
func recommendations(categories []category, in Inputs) []model.Recommendation {
	byName := make(map[string]category, len(categories))
	for _, c := range categories {
		byName[c.name] = c
	}

	var recs []model.Recommendation
	if c := byName["control_panel"]; c.ran && c.score < 80 {
		recs = append(recs, model.Recommendation{
			Priority:       "high",
			Action:         "Review expert-scored control statements against pipeline output",
			Rationale:      "Control-panel agreement fell below 80",
			ExpectedImpact: "Restores calibration against the expert baseline",
		})
	}
	if c := byName["cross_validation"]; c.ran && c.score < 80 {
		recs = append(recs, model.Recommendation{
			Priority:       "high",
			Action:         "Re-score swapped-attribution statement pairs and inspect divergences",
			Rationale:      "Cross-validation consistency fell below 80",
			ExpectedImpact: "Removes attribution-driven score differences",
		})
	}
	if c := byName["party_bias"]; c.ran && c.score < 70 {
		recs = append(recs, model.Recommendation{
			Priority:       "critical",
			Action:         "Audit topic-level scoring for partisan splits",
			Rationale:      "Party-bias score fell below 70",
			ExpectedImpact: "Topic scores stop correlating with party affiliation",
		})
	}
	if c := byName["source_bias"]; c.ran && c.score < 70 {
		recs = append(recs, model.Recommendation{
			Priority:       "medium",
			Action:         "Rebalance statement collection across sources",
			Rationale:      "Source-bias score fell below 70",
			ExpectedImpact: "No single outlet dominates the evidence base",
		})
	}
	if c := byName["independence"]; c.ran && c.score < 80 {
		recs = append(recs, model.Recommendation{
			Priority:       "high",
			Action:         "Harden the scoring service against shared state between calls",
			Rationale:      "Statement-independence score fell below 80",
			ExpectedImpact: "Scores become a function of statement content alone",
		})
	}
	if in.Independence != nil {
		recs = append(recs, in.Independence.Recommendations...)
	}
	return recs
}
