package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/milosz-sonski/training-plans-api/internal/repository"
	"github.com/milosz-sonski/training-plans-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// statusResponse represents the JSON body of the probe endpoints
type statusResponse struct {
	Status string `json:"status"`
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"), "handler returned wrong content type")

	var resp statusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), "failed to parse response body")
	return resp.Status
}

func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "ok", decodeStatus(t, rr))
}

func TestReadinessHandler(t *testing.T) {
	repo := repository.NewInMemoryTrainingPlanRepository()
	plans := service.NewTrainingPlanService(repo, nil, nil, zap.NewNop().Sugar())
	handler := ReadinessHandler(plans)

	t.Run("Ready", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ready", decodeStatus(t, rr))
	})

	t.Run("StoreDown", func(t *testing.T) {
		repo.SetError(true, "connection refused")
		defer repo.SetError(false, "")

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "unavailable", decodeStatus(t, rr))
	})
}
