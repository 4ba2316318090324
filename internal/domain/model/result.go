package model

import "time"

// ProbeStatus records whether a probe actually executed. A failed or
// skipped probe must never read as a perfect or zero score downstream.
type ProbeStatus string

const (
	// ProbeCompleted means the probe ran to completion and produced a score.
	ProbeCompleted ProbeStatus = "completed"
	// ProbeFailed means the scoring function failed while the probe was running.
	ProbeFailed ProbeStatus = "failed"
	// ProbeSkipped means the probe's minimum-sample precondition was not met.
	ProbeSkipped ProbeStatus = "skipped"
)

// Severity grades a flagged statement or issue.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// ProblematicStatement flags a statement whose score deviated beyond a
// probe's threshold.
type ProblematicStatement struct {
	StatementID string   `json:"statement_id"`
	Deviation   float64  `json:"deviation"`
	Severity    Severity `json:"severity"`
	Detail      string   `json:"detail,omitempty"`
}

// ProbeResult is the uniform output of every independence and bias probe.
// Passed is always derived from Analysis and the configured threshold,
// never set independently.
type ProbeResult struct {
	TestType    string                 `json:"test_type"`
	Description string                 `json:"description"`
	Score       float64                `json:"score"` // 0-100, higher = less bias
	Passed      bool                   `json:"passed"`
	Status      ProbeStatus            `json:"status"`
	Error       string                 `json:"error,omitempty"`       // set when Status == failed
	SkipReason  string                 `json:"skip_reason,omitempty"` // set when Status == skipped
	Analysis    any                    `json:"analysis,omitempty"`    // probe-specific detail payload
	Problematic []ProblematicStatement `json:"problematic_statements,omitempty"`
}

// Ran reports whether the probe executed and produced a usable score.
func (r ProbeResult) Ran() bool { return r.Status == ProbeCompleted }

// Recommendation is a prioritized remediation emitted for a weak sub-score.
type Recommendation struct {
	Priority       string `json:"priority"` // critical | high | medium | low
	Action         string `json:"action"`
	Rationale      string `json:"rationale"`
	ExpectedImpact string `json:"expected_impact"`
}

// CriticalIssue names a probe whose result demands attention.
type CriticalIssue struct {
	Probe       string   `json:"probe"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Rating is the ordinal quality tier derived from the overall bias score.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
	RatingCritical  Rating = "Critical"
)

// AggregateAssessment combines all probe categories into one verdict.
type AggregateAssessment struct {
	OverallBiasScore float64          `json:"overall_bias_score"`
	Rating           Rating           `json:"rating"`
	KeyFindings      []string         `json:"key_findings"`
	CriticalIssues   []CriticalIssue  `json:"critical_issues"`
	Confidence       float64          `json:"confidence"` // 0-100, proportion of categories that ran
	Recommendations  []Recommendation `json:"recommendations"`
}

// IndependenceSummary carries the five independence probe results and
// their weighted overall score.
type IndependenceSummary struct {
	Score           float64          `json:"score"`
	Passed          bool             `json:"passed"`
	Probes          []ProbeResult    `json:"probes"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// BiasSummary carries the four bias analytics probe results.
type BiasSummary struct {
	Probes []ProbeResult `json:"probes"`
}

// AuditReport is the full output of one pipeline invocation.
type AuditReport struct {
	RunID          string               `json:"run_id"`
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     time.Time            `json:"finished_at"`
	StatementCount int                  `json:"statement_count"`
	CandidateCount int                  `json:"candidate_count"`
	Independence   IndependenceSummary  `json:"independence"`
	Bias           BiasSummary          `json:"bias"`
	Assessment     *AggregateAssessment `json:"assessment,omitempty"`
}
