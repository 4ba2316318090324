package model

import "time"

// AuditRequest is one audit job: the statement corpus to examine plus
// optional externally computed category inputs.
type AuditRequest struct {
	RunID      string      `json:"run_id,omitempty"`
	Statements []Statement `json:"statements"`

	// ControlPanelScore is the pre-computed reference-statement agreement
	// score, if a control panel was run.
	ControlPanelScore *float64 `json:"control_panel_score,omitempty"`

	// CrossValidationBiasLikelihood is the pre-computed attribution-bias
	// likelihood from a swapped-attribution pass, if one was run.
	CrossValidationBiasLikelihood *float64 `json:"cross_validation_bias_likelihood,omitempty"`

	// Seed fixes the permutation seed for reproducible runs. Zero selects
	// the default seed.
	Seed int64 `json:"seed,omitempty"`
}

// RunStatus tracks the lifecycle of a submitted audit run.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunRecord is the stored state of one submitted audit run.
type RunRecord struct {
	RunID       string       `json:"run_id"`
	Status      RunStatus    `json:"status"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Error       string       `json:"error,omitempty"`
	Report      *AuditReport `json:"report,omitempty"`
}
