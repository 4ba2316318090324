// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sciencedex/scorecard-audit/internal/adapters/repository"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit enqueues an audit request for async processing and returns
	// the assigned run id.
	Submit(ctx context.Context, req model.AuditRequest) (string, error)

	// GetRun returns the stored record for a run.
	GetRun(ctx context.Context, runID string) (model.RunRecord, error)
}

// Server wires HTTP routes for the audit API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	auditsHandler *AuditsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		auditsHandler: NewAuditsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/audits", MetricsMiddleware(s.auditsHandler.HandlePostAudit, "audits"))
	mux.HandleFunc("/audits/", MetricsMiddleware(s.auditsHandler.HandleGetAudit, "audit"))
}

type acceptedResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
