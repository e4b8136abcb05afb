package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPlanOperation(t *testing.T) {
	before := PlanOperationCount("get", OutcomeNotFound)

	RecordPlanOperation("get", OutcomeNotFound)
	RecordPlanOperation("get", OutcomeNotFound)

	assert.InDelta(t, before+2, PlanOperationCount("get", OutcomeNotFound), 0.0001)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/trainingplans/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/api/trainingplans/999", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)

	RecordSnapshotExported(time.Now())

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.True(t, strings.Contains(body,
		`training_plans_http_requests_total{method="GET",route="/api/trainingplans/{id}",status="404"}`))
	assert.Contains(t, body, "training_plans_http_request_duration_seconds")
	assert.Contains(t, body, "training_plans_export_last_snapshot_timestamp_seconds")
}
