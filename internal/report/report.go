// Package report renders finished audit reports as JSON or Markdown.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Format selects a report rendering.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Render serializes the report in the requested format.
func Render(r *model.AuditReport, format Format) ([]byte, error) {
	if r == nil {
		return nil, ErrNilReport
	}
	switch format {
	case FormatJSON:
		return renderJSON(r)
	case FormatMarkdown:
		return renderMarkdown(r), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderJSON(r *model.AuditReport) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return out, nil
}

func renderMarkdown(r *model.AuditReport) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Scorecard Audit Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Duration: %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(&b, "- Statements: %d across %d candidates\n\n", r.StatementCount, r.CandidateCount)

	if a := r.Assessment; a != nil {
		fmt.Fprintf(&b, "## Overall Assessment\n\n")
		fmt.Fprintf(&b, "- Overall bias score: **%.1f/100** (%s)\n", a.OverallBiasScore, a.Rating)
		fmt.Fprintf(&b, "- Confidence: %.0f%%\n\n", a.Confidence)
		if len(a.KeyFindings) > 0 {
			fmt.Fprintf(&b, "### Key Findings\n\n")
			for _, f := range a.KeyFindings {
				fmt.Fprintf(&b, "- %s\n", f)
			}
			b.WriteString("\n")
		}
		if len(a.CriticalIssues) > 0 {
			fmt.Fprintf(&b, "### Critical Issues\n\n")
			for _, issue := range a.CriticalIssues {
				fmt.Fprintf(&b, "- **%s** [%s]: %s\n", issue.Probe, issue.Severity, issue.Description)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "## Independence Probes\n\n")
	fmt.Fprintf(&b, "Overall independence score: %.1f (%s)\n\n", r.Independence.Score, passLabel(r.Independence.Passed))
	writeProbeTable(&b, r.Independence.Probes)

	fmt.Fprintf(&b, "## Bias Probes\n\n")
	writeProbeTable(&b, r.Bias.Probes)

	recs := collectRecommendations(r)
	if len(recs) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- **[%s]** %s\n  - Why: %s\n  - Expected impact: %s\n",
				rec.Priority, rec.Action, rec.Rationale, rec.ExpectedImpact)
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}

func writeProbeTable(b *strings.Builder, probes []model.ProbeResult) {
	b.WriteString("| Probe | Status | Score | Verdict |\n")
	b.WriteString("|-------|--------|-------|---------|\n")
	for _, p := range probes {
		switch p.Status {
		case model.ProbeCompleted:
			fmt.Fprintf(b, "| %s | completed | %.1f | %s |\n", p.TestType, p.Score, passLabel(p.Passed))
		case model.ProbeSkipped:
			fmt.Fprintf(b, "| %s | skipped | - | %s |\n", p.TestType, p.SkipReason)
		case model.ProbeFailed:
			fmt.Fprintf(b, "| %s | failed | - | %s |\n", p.TestType, p.Error)
		}
	}
	b.WriteString("\n")
}

func passLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}

// collectRecommendations prefers the merged assessment list and falls
// back to the independence recommendations when no assessment was run.
func collectRecommendations(r *model.AuditReport) []model.Recommendation {
	if r.Assessment != nil && len(r.Assessment.Recommendations) > 0 {
		return r.Assessment.Recommendations
	}
	return r.Independence.Recommendations
}
