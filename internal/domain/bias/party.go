package bias

import (
	"fmt"
	"math"
	"sort"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// TopicComparison holds the per-topic Democratic/Republican comparison.
type TopicComparison struct {
	Topic           string                  `json:"topic"`
	DemocraticMean  float64                 `json:"democratic_mean"`
	RepublicanMean  float64                 `json:"republican_mean"`
	DemocraticCount int                     `json:"democratic_count"`
	RepublicanCount int                     `json:"republican_count"`
	ScoreDifference float64                 `json:"score_difference"` // Democratic mean minus Republican mean
	CohenD          float64                 `json:"cohen_d"`
	Welch           stats.WelchResult       `json:"welch"`
	MannWhitney     stats.MannWhitneyResult `json:"mann_whitney"`
	Significant     bool                    `json:"significant"`
}

// PartyAnalysis is the detail payload of the party-bias probe.
type PartyAnalysis struct {
	Topics            []TopicComparison `json:"topics"`
	SignificantTopics int               `json:"significant_topics"`
	MaxDifference     float64           `json:"max_difference"`
}

// partyProbe partitions statements by party and compares Democratic and
// Republican score distributions per topic. A topic is flagged when the
// Welch approximation reports significance or the raw mean difference
// exceeds the fixed point spread; either signal alone is enough.
func (a *Analytics) partyProbe(statements []model.Statement) model.ProbeResult {
	byTopicParty := make(map[string]map[model.Party][]float64)
	for _, s := range statements {
		topic := byTopicParty[s.Topic]
		if topic == nil {
			topic = make(map[model.Party][]float64)
			byTopicParty[s.Topic] = topic
		}
		party := s.Party.Normalize()
		topic[party] = append(topic[party], s.Position)
	}

	topics := make([]string, 0, len(byTopicParty))
	for topic := range byTopicParty {
		topics = append(topics, topic)
	}
	sort.Strings(topics)

	analysis := PartyAnalysis{}
	var penaltySum float64
	var compared int
	for _, topic := range topics {
		dem := byTopicParty[topic][model.PartyDemocratic]
		rep := byTopicParty[topic][model.PartyRepublican]
		if len(dem) == 0 || len(rep) == 0 {
			continue
		}
		compared++

		cmp := TopicComparison{
			Topic:           topic,
			DemocraticMean:  stats.Mean(dem),
			RepublicanMean:  stats.Mean(rep),
			DemocraticCount: len(dem),
			RepublicanCount: len(rep),
			CohenD:          stats.CohenD(dem, rep),
			Welch:           stats.WelchTTest(dem, rep),
			MannWhitney:     stats.MannWhitneyU(dem, rep),
		}
		cmp.ScoreDifference = cmp.DemocraticMean - cmp.RepublicanMean
		cmp.Significant = cmp.Welch.Significant || math.Abs(cmp.ScoreDifference) > significantDifference

		if math.Abs(cmp.ScoreDifference) > analysis.MaxDifference {
			analysis.MaxDifference = math.Abs(cmp.ScoreDifference)
		}
		if cmp.Significant {
			analysis.SignificantTopics++
			penaltySum += math.Min(40, math.Abs(cmp.ScoreDifference))
		} else {
			penaltySum += math.Min(10, math.Abs(cmp.ScoreDifference)/2)
		}
		analysis.Topics = append(analysis.Topics, cmp)
	}

	if compared == 0 {
		return model.ProbeResult{
			TestType:    TestParty,
			Description: "Topic-level scores must not split along party lines",
			Status:      model.ProbeSkipped,
			SkipReason:  "no topic has statements from both major parties",
		}
	}

	var problematic []model.ProblematicStatement
	for _, cmp := range analysis.Topics {
		if !cmp.Significant {
			continue
		}
		severity := model.SeverityMedium
		if math.Abs(cmp.ScoreDifference) > 2*significantDifference {
			severity = model.SeverityHigh
		}
		problematic = append(problematic, model.ProblematicStatement{
			StatementID: cmp.Topic,
			Deviation:   cmp.ScoreDifference,
			Severity:    severity,
			Detail:      fmt.Sprintf("topic %q: %.1f point gap between parties", cmp.Topic, cmp.ScoreDifference),
		})
	}

	score := math.Max(0, 100-penaltySum/float64(compared))
	return model.ProbeResult{
		TestType:    TestParty,
		Description: "Topic-level scores must not split along party lines",
		Score:       score,
		Passed:      analysis.SignificantTopics == 0,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}
}
