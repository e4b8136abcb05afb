package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHome_Index(t *testing.T) {
	env := newTestEnv(t, testConfig())

	rr := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, ViewIndex, env.renderer.last(t).view)
}

func TestHome_Error(t *testing.T) {
	t.Run("UsesRequestID", func(t *testing.T) {
		env := newTestEnv(t, testConfig())

		rr := env.do(httptest.NewRequest(http.MethodGet, "/Home/Error", nil))
		assert.Equal(t, http.StatusOK, rr.Code)

		call := env.renderer.last(t)
		assert.Equal(t, ViewError, call.view)

		model, ok := call.model.(domain.ErrorViewModel)
		require.True(t, ok)
		assert.NotEmpty(t, model.RequestID)
		assert.True(t, model.ShowRequestID())
	})

	t.Run("FallsBackToUUID", func(t *testing.T) {
		renderer := &recordingRenderer{}
		handler := NewHomeHandler(renderer, zap.NewNop().Sugar())

		rr := httptest.NewRecorder()
		handler.Error(rr, httptest.NewRequest(http.MethodGet, "/Home/Error", nil))

		model, ok := renderer.last(t).model.(domain.ErrorViewModel)
		require.True(t, ok)
		_, err := uuid.Parse(model.RequestID)
		assert.NoError(t, err)
	})
}
