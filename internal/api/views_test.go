package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderView(t *testing.T, view string, model interface{}) *httptest.ResponseRecorder {
	t.Helper()

	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, renderer.Render(rr, http.StatusOK, view, model))
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	return rr
}

func TestTemplateRenderer_Community(t *testing.T) {
	plans := []*domain.TrainingPlan{{
		ID:           7,
		Name:         "<Plan A>",
		Description:  "Test A",
		Exercises:    "Push-ups, Squats",
		TrainingDays: "Monday, Wednesday",
		CreatedBy:    "Admin",
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}

	body := renderView(t, ViewCommunity, plans).Body.String()
	assert.Contains(t, body, "&lt;Plan A&gt;")
	assert.Contains(t, body, "<li>Push-ups</li>")
	assert.Contains(t, body, "<li>Squats</li>")
	assert.Contains(t, body, "Monday, Wednesday")
	assert.Contains(t, body, "2024-05-01")
	assert.Contains(t, body, `/Plans/Edit/7`)
}

func TestTemplateRenderer_CommunityEmpty(t *testing.T) {
	body := renderView(t, ViewCommunity, []*domain.TrainingPlan{}).Body.String()
	assert.Contains(t, body, "No plans yet")
}

func TestTemplateRenderer_Error(t *testing.T) {
	t.Run("ShowsRequestID", func(t *testing.T) {
		body := renderView(t, ViewError, domain.ErrorViewModel{RequestID: "req-123"}).Body.String()
		assert.Contains(t, body, "req-123")
	})

	t.Run("HidesEmptyRequestID", func(t *testing.T) {
		body := renderView(t, ViewError, domain.ErrorViewModel{}).Body.String()
		assert.NotContains(t, body, "Request ID")
	})
}

func TestTemplateRenderer_Forms(t *testing.T) {
	model := PlanFormModel{
		Plan:   &domain.TrainingPlan{ID: 3, Name: "Plan C"},
		Errors: map[string]string{"Exercises": "The Exercises field is required."},
	}

	create := renderView(t, ViewCreate, model).Body.String()
	assert.Contains(t, create, `action="/Plans/AddTrainingPlan"`)
	assert.Contains(t, create, `value="Plan C"`)
	assert.Contains(t, create, "The Exercises field is required.")

	edit := renderView(t, ViewEdit, PlanFormModel{Plan: model.Plan}).Body.String()
	assert.Contains(t, edit, `action="/Plans/UpdatePlan"`)
	assert.Contains(t, edit, `name="Id" value="3"`)
	assert.NotContains(t, edit, "field is required")
}

func TestTemplateRenderer_Index(t *testing.T) {
	body := renderView(t, ViewIndex, nil).Body.String()
	assert.Contains(t, body, "/Plans/Community")
}

func TestTemplateRenderer_UnknownView(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	assert.Error(t, renderer.Render(rr, http.StatusOK, "missing", nil))
}
