package aggregate_test

import (
	"testing"

	"github.com/sciencedex/scorecard-audit/internal/domain/aggregate"
	"github.com/sciencedex/scorecard-audit/internal/domain/bias"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func ptr(v float64) *float64 { return &v }

func completedIndependence(score float64) *model.IndependenceSummary {
	return &model.IndependenceSummary{
		Score:  score,
		Passed: score >= 80,
		Probes: []model.ProbeResult{
			{TestType: "ordering_independence", Score: score, Status: model.ProbeCompleted},
		},
	}
}

func TestAssess(t *testing.T) {
	convey.Convey("Given the aggregation engine", t, func() {
		engine := aggregate.NewEngine()

		convey.Convey("When only two categories ran", func() {
			assessment := engine.Assess(aggregate.Inputs{
				ControlPanelScore: ptr(90),
				Independence:      completedIndependence(70),
			})

			convey.Convey("Then the score renormalizes over their weights", func() {
				// (90*0.25 + 70*0.20) / 0.45
				convey.So(assessment.OverallBiasScore, convey.ShouldAlmostEqual, 81.111111, 1e-5)
				convey.So(assessment.Rating, convey.ShouldEqual, model.RatingGood)
			})

			convey.Convey("Then both attempted categories executed", func() {
				convey.So(assessment.Confidence, convey.ShouldEqual, 100)
			})

			convey.Convey("Then unattempted categories appear as not evaluated", func() {
				convey.So(assessment.KeyFindings, convey.ShouldContain, "party_bias: not evaluated")
				convey.So(assessment.KeyFindings, convey.ShouldContain, "control_panel: 90.0/100")
			})
		})

		convey.Convey("When every category ran cleanly", func() {
			assessment := engine.Assess(aggregate.Inputs{
				ControlPanelScore:             ptr(95),
				CrossValidationBiasLikelihood: ptr(5),
				Independence:                  completedIndependence(95),
				Bias: &model.BiasSummary{Probes: []model.ProbeResult{
					{TestType: bias.TestParty, Score: 95, Status: model.ProbeCompleted},
					{TestType: bias.TestSource, Score: 95, Status: model.ProbeCompleted},
				}},
			})

			convey.So(assessment.OverallBiasScore, convey.ShouldAlmostEqual, 95, 1e-9)
			convey.So(assessment.Rating, convey.ShouldEqual, model.RatingExcellent)
			convey.So(assessment.Confidence, convey.ShouldEqual, 100)
			convey.So(assessment.CriticalIssues, convey.ShouldBeEmpty)
			convey.So(assessment.Recommendations, convey.ShouldBeEmpty)
		})

		convey.Convey("When nothing ran at all", func() {
			assessment := engine.Assess(aggregate.Inputs{})

			convey.So(assessment.OverallBiasScore, convey.ShouldEqual, 0)
			convey.So(assessment.Confidence, convey.ShouldEqual, 0)
			convey.So(assessment.Rating, convey.ShouldEqual, model.RatingCritical)
		})

		convey.Convey("When a skipped bias probe is present", func() {
			assessment := engine.Assess(aggregate.Inputs{
				ControlPanelScore: ptr(90),
				Bias: &model.BiasSummary{Probes: []model.ProbeResult{
					{TestType: bias.TestParty, Status: model.ProbeSkipped, SkipReason: "no topic has statements from both major parties"},
				}},
			})

			convey.Convey("Then it never counts as a zero score", func() {
				convey.So(assessment.OverallBiasScore, convey.ShouldEqual, 90)
			})

			convey.Convey("Then it surfaces as an attempted category without a result", func() {
				convey.So(assessment.KeyFindings, convey.ShouldContain, "party_bias: did not complete")
				var found bool
				for _, issue := range assessment.CriticalIssues {
					if issue.Probe == "party_bias" {
						found = true
					}
				}
				convey.So(found, convey.ShouldBeTrue)
			})

			convey.Convey("Then confidence drops for the attempted-but-missing category", func() {
				// control_panel ran, party_bias attempted but did not.
				convey.So(assessment.Confidence, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When an independence probe failed outright", func() {
			summary := completedIndependence(85)
			summary.Probes = append(summary.Probes, model.ProbeResult{
				TestType: "temporal_consistency",
				Status:   model.ProbeFailed,
				Error:    "backend unavailable",
			})
			assessment := engine.Assess(aggregate.Inputs{Independence: summary})

			var found bool
			for _, issue := range assessment.CriticalIssues {
				if issue.Probe == "temporal_consistency" && issue.Description == "backend unavailable" {
					found = true
				}
			}
			convey.So(found, convey.ShouldBeTrue)
		})

		convey.Convey("When a category score falls below the critical floor", func() {
			assessment := engine.Assess(aggregate.Inputs{ControlPanelScore: ptr(55)})

			var found bool
			for _, issue := range assessment.CriticalIssues {
				if issue.Probe == "control_panel" && issue.Severity == model.SeverityHigh {
					found = true
				}
			}
			convey.So(found, convey.ShouldBeTrue)
		})
	})
}

func TestRatingTiers(t *testing.T) {
	convey.Convey("Given single-category assessments", t, func() {
		engine := aggregate.NewEngine()

		cases := []struct {
			score  float64
			rating model.Rating
		}{
			{95, model.RatingExcellent},
			{90, model.RatingExcellent},
			{85, model.RatingGood},
			{80, model.RatingGood},
			{75, model.RatingFair},
			{70, model.RatingFair},
			{65, model.RatingPoor},
			{60, model.RatingPoor},
			{59.9, model.RatingCritical},
			{0, model.RatingCritical},
		}

		convey.Convey("Then the breakpoints sit at 90, 80, 70, and 60", func() {
			for _, tc := range cases {
				assessment := engine.Assess(aggregate.Inputs{ControlPanelScore: ptr(tc.score)})
				convey.So(assessment.Rating, convey.ShouldEqual, tc.rating)
			}
		})
	})
}

func TestRecommendations(t *testing.T) {
	convey.Convey("Given the recommendation rules", t, func() {
		engine := aggregate.NewEngine()

		convey.Convey("When several categories are weak", func() {
			summary := completedIndependence(75)
			summary.Recommendations = []model.Recommendation{
				{Priority: "high", Action: "Randomize evaluation order between runs"},
			}
			assessment := engine.Assess(aggregate.Inputs{
				ControlPanelScore:             ptr(75),
				CrossValidationBiasLikelihood: ptr(30),
				Independence:                  summary,
				Bias: &model.BiasSummary{Probes: []model.ProbeResult{
					{TestType: bias.TestParty, Score: 65, Status: model.ProbeCompleted},
					{TestType: bias.TestSource, Score: 65, Status: model.ProbeCompleted},
				}},
			})

			convey.Convey("Then every rule fires in fixed order", func() {
				convey.So(assessment.Recommendations, convey.ShouldHaveLength, 6)
				convey.So(assessment.Recommendations[0].Rationale, convey.ShouldContainSubstring, "Control-panel")
				convey.So(assessment.Recommendations[1].Rationale, convey.ShouldContainSubstring, "Cross-validation")
				convey.So(assessment.Recommendations[2].Priority, convey.ShouldEqual, "critical")
				convey.So(assessment.Recommendations[3].Priority, convey.ShouldEqual, "medium")
				convey.So(assessment.Recommendations[4].Rationale, convey.ShouldContainSubstring, "independence")
			})

			convey.Convey("Then independence recommendations are appended last", func() {
				last := assessment.Recommendations[len(assessment.Recommendations)-1]
				convey.So(last.Action, convey.ShouldEqual, "Randomize evaluation order between runs")
			})
		})

		convey.Convey("When a weak category did not run", func() {
			assessment := engine.Assess(aggregate.Inputs{
				Bias: &model.BiasSummary{Probes: []model.ProbeResult{
					{TestType: bias.TestParty, Status: model.ProbeSkipped},
				}},
			})

			convey.So(assessment.Recommendations, convey.ShouldBeEmpty)
		})

		convey.Convey("When scores sit exactly on the rule thresholds", func() {
			assessment := engine.Assess(aggregate.Inputs{
				ControlPanelScore: ptr(80),
				Bias: &model.BiasSummary{Probes: []model.ProbeResult{
					{TestType: bias.TestParty, Score: 70, Status: model.ProbeCompleted},
				}},
			})

			convey.So(assessment.Recommendations, convey.ShouldBeEmpty)
		})
	})
}
