package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sciencedex/scorecard-audit/internal/adapters/http/api"
	"github.com/sciencedex/scorecard-audit/internal/adapters/repository"
	service "github.com/sciencedex/scorecard-audit/internal/app"
	"github.com/sciencedex/scorecard-audit/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

// fakeDeps implements api.Dependencies with canned behavior.
type fakeDeps struct {
	submitErr error
	lastReq   model.AuditRequest
	runs      map[string]model.RunRecord
}

func (f *fakeDeps) Submit(_ context.Context, req model.AuditRequest) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.lastReq = req
	return "run-123", nil
}

func (f *fakeDeps) GetRun(_ context.Context, runID string) (model.RunRecord, error) {
	rec, ok := f.runs[runID]
	if !ok {
		return model.RunRecord{}, repository.ErrNotFound
	}
	return rec, nil
}

func (f *fakeDeps) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, deps).Register(context.Background(), mux)
	return mux
}

const validBody = `{"statements": [
	{"id": "s1", "quote": "sea levels are rising", "topic": "climate", "position": 82},
	{"id": "s2", "quote": "vaccines are safe", "topic": "health", "position": 91}
]}`

func TestHandlePostAudit(t *testing.T) {
	convey.Convey("Given the audits endpoint", t, func() {
		convey.Convey("When the submission is valid", func() {
			deps := &fakeDeps{}
			mux := newTestServer(deps)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(validBody)))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusAccepted)

			var resp struct {
				RunID  string `json:"run_id"`
				Status string `json:"status"`
			}
			convey.So(json.Unmarshal(rec.Body.Bytes(), &resp), convey.ShouldBeNil)
			convey.So(resp.RunID, convey.ShouldEqual, "run-123")
			convey.So(resp.Status, convey.ShouldEqual, string(model.RunQueued))
			convey.So(deps.lastReq.Statements, convey.ShouldHaveLength, 2)
		})

		convey.Convey("When the body is not JSON", func() {
			rec := httptest.NewRecorder()
			newTestServer(&fakeDeps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader("{not json")))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "invalid_json")
		})

		convey.Convey("When the statements list is empty", func() {
			rec := httptest.NewRecorder()
			newTestServer(&fakeDeps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(`{"statements": []}`)))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "invalid_request")
		})

		convey.Convey("When a statement position is out of range", func() {
			body := `{"statements": [{"id": "s1", "position": 120}]}`
			rec := httptest.NewRecorder()
			newTestServer(&fakeDeps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(body)))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the queue is full", func() {
			deps := &fakeDeps{submitErr: service.ErrQueueFull}
			rec := httptest.NewRecorder()
			newTestServer(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(validBody)))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusTooManyRequests)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "backpressure")
		})

		convey.Convey("When the service is not started", func() {
			deps := &fakeDeps{submitErr: service.ErrNotStarted}
			rec := httptest.NewRecorder()
			newTestServer(deps).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audits", strings.NewReader(validBody)))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusInternalServerError)
		})

		convey.Convey("When the method is not POST", func() {
			rec := httptest.NewRecorder()
			newTestServer(&fakeDeps{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audits", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestHandleGetAudit(t *testing.T) {
	convey.Convey("Given the audit lookup endpoint", t, func() {
		deps := &fakeDeps{runs: map[string]model.RunRecord{
			"run-123": {
				RunID:  "run-123",
				Status: model.RunCompleted,
				Report: &model.AuditReport{RunID: "run-123", StatementCount: 2},
			},
		}}
		mux := newTestServer(deps)

		convey.Convey("When the run exists", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audits/run-123", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)

			var record model.RunRecord
			convey.So(json.Unmarshal(rec.Body.Bytes(), &record), convey.ShouldBeNil)
			convey.So(record.Status, convey.ShouldEqual, model.RunCompleted)
			convey.So(record.Report.StatementCount, convey.ShouldEqual, 2)
		})

		convey.Convey("When the run does not exist", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audits/missing", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "run_not_found")
		})

		convey.Convey("When the run id is malformed", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audits/a/b", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the method is not GET", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/audits/run-123", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	convey.Convey("Given the operational endpoints", t, func() {
		mux := newTestServer(&fakeDeps{})

		convey.Convey("When probing /healthz", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When fetching /stats", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "started")
		})
	})
}
