package bias

import (
	"fmt"
	"strings"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/sciencedex/scorecard-audit/internal/domain/stats"
)

// minClusterSize is the smallest cluster worth a variance check.
const minClusterSize = 3

// StatementCluster groups statements with near-identical wording.
type StatementCluster struct {
	Representative string   `json:"representative"` // id of the cluster's first member
	StatementIDs   []string `json:"statement_ids"`
	ScoreVariance  float64  `json:"score_variance"`
}

// SemanticAnalysis is the detail payload of the semantic-consistency probe.
type SemanticAnalysis struct {
	Clusters         []StatementCluster `json:"clusters"`
	QualifyingCount  int                `json:"qualifying_clusters"`
	MaxScoreVariance float64            `json:"max_score_variance"`
}

// semanticProbe greedily clusters statements by word-overlap similarity
// and measures score variance inside clusters of near-identical content.
// Similar statements scoring very differently point at inconsistent
// scoring rather than content-driven scoring. The word-overlap heuristic
// is deliberately simple; it is not a semantic-similarity requirement.
func (a *Analytics) semanticProbe(statements []model.Statement) model.ProbeResult {
	type cluster struct {
		repTokens map[string]struct{}
		members   []model.Statement
	}
	var clusters []*cluster
	for _, s := range statements {
		tokens := tokenize(s.Quote)
		placed := false
		for _, c := range clusters {
			if jaccard(tokens, c.repTokens) > a.cfg.SemanticSimilarityThreshold {
				c.members = append(c.members, s)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, &cluster{repTokens: tokens, members: []model.Statement{s}})
		}
	}

	analysis := SemanticAnalysis{}
	var problematic []model.ProblematicStatement
	for _, c := range clusters {
		if len(c.members) < minClusterSize {
			continue
		}
		analysis.QualifyingCount++
		scores := make([]float64, len(c.members))
		ids := make([]string, len(c.members))
		for i, m := range c.members {
			scores[i] = m.Position
			ids[i] = m.ID
		}
		variance := stats.PopulationVariance(scores)
		analysis.Clusters = append(analysis.Clusters, StatementCluster{
			Representative: c.members[0].ID,
			StatementIDs:   ids,
			ScoreVariance:  variance,
		})
		if variance > analysis.MaxScoreVariance {
			analysis.MaxScoreVariance = variance
		}
		if variance > semanticVarianceThreshold {
			problematic = append(problematic, model.ProblematicStatement{
				StatementID: c.members[0].ID,
				Deviation:   variance,
				Severity:    model.SeverityMedium,
				Detail:      fmt.Sprintf("%d near-identical statements with score variance %.1f", len(c.members), variance),
			})
		}
	}

	score := 100.0
	if analysis.QualifyingCount > 0 {
		score = 100 - (analysis.MaxScoreVariance/semanticVarianceThreshold)*100
		if score < 0 {
			score = 0
		}
	}

	return model.ProbeResult{
		TestType:    TestSemantic,
		Description: "Near-identical statements must receive consistent scores",
		Score:       score,
		Passed:      analysis.MaxScoreVariance <= semanticVarianceThreshold,
		Status:      model.ProbeCompleted,
		Analysis:    analysis,
		Problematic: problematic,
	}
}

// tokenize lowercases and splits on whitespace.
func tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		tokens[word] = struct{}{}
	}
	return tokens
}

// jaccard is shared-word count over union size.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	var shared int
	for token := range a {
		if _, ok := b[token]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
