// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/sciencedex/scorecard-audit/internal/app"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// maxRequestBody bounds POST /audits payloads.
const maxRequestBody = 32 << 20 // 32 MiB

// AuditsHandler handles audit submission and retrieval.
type AuditsHandler struct {
	deps Dependencies
}

// NewAuditsHandler creates a new audits handler.
func NewAuditsHandler(deps Dependencies) *AuditsHandler {
	return &AuditsHandler{deps: deps}
}

// auditRequest mirrors the wire schema for POST /audits.
type auditRequest struct {
	Statements                    []model.Statement `json:"statements"`
	ControlPanelScore             *float64          `json:"control_panel_score,omitempty"`
	CrossValidationBiasLikelihood *float64          `json:"cross_validation_bias_likelihood,omitempty"`
	Seed                          int64             `json:"seed,omitempty"`
}

func (a auditRequest) validate() error {
	if len(a.Statements) == 0 {
		return errors.New("missing statements")
	}
	for i, stmt := range a.Statements {
		if strings.TrimSpace(stmt.ID) == "" {
			return errors.New("statement missing id")
		}
		if stmt.Position < 0 || stmt.Position > 100 {
			return errors.New("statement " + a.Statements[i].ID + " position out of [0,100]")
		}
	}
	return nil
}

// HandlePostAudit handles POST /audits requests. A valid submission is
// accepted with 202 and processed asynchronously; a full queue returns 429.
func (h *AuditsHandler) HandlePostAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	var req auditRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}

	runID, err := h.deps.Submit(r.Context(), model.AuditRequest{
		Statements:                    req.Statements,
		ControlPanelScore:             req.ControlPanelScore,
		CrossValidationBiasLikelihood: req.CrossValidationBiasLikelihood,
		Seed:                          req.Seed,
	})
	if err != nil {
		if errors.Is(err, service.ErrQueueFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
			return
		}
		writeError(w, http.StatusInternalServerError, "submit_failed", err)
		return
	}

	writeJSON(w, http.StatusAccepted, acceptedResponse{
		RunID:  runID,
		Status: string(model.RunQueued),
	})
}

// HandleGetAudit handles GET /audits/{run_id} requests.
func (h *AuditsHandler) HandleGetAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}

	runID := strings.TrimPrefix(r.URL.Path, "/audits/")
	if runID == "" || strings.Contains(runID, "/") {
		writeError(w, http.StatusBadRequest, "invalid_run_id", ErrBadRequest)
		return
	}

	record, err := h.deps.GetRun(r.Context(), runID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "run_not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "lookup_failed", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
