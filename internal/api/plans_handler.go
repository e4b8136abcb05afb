package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/milosz-sonski/training-plans-api/internal/service"
	"go.uber.org/zap"
)

const communityPath = "/Plans/Community"

// PlansHandler serves the HTML pages under /Plans
type PlansHandler struct {
	plans    PlanService
	renderer Renderer
	logger   *zap.SugaredLogger
}

// NewPlansHandler creates a new HTML pages handler
func NewPlansHandler(plans PlanService, renderer Renderer, logger *zap.SugaredLogger) *PlansHandler {
	return &PlansHandler{
		plans:    plans,
		renderer: renderer,
		logger:   logger,
	}
}

// Create handles GET /Plans/Create
func (h *PlansHandler) Create(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, h.logger, http.StatusOK, ViewCreate, PlanFormModel{Plan: &domain.TrainingPlan{}})
}

// AddTrainingPlan handles POST /Plans/AddTrainingPlan
func (h *PlansHandler) AddTrainingPlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		render(w, r, h.renderer, h.logger, http.StatusBadRequest, ViewCreate, PlanFormModel{Plan: &domain.TrainingPlan{}})
		return
	}

	plan := planFromForm(r.PostForm)
	// New plans always get a store assigned id
	plan.ID = 0

	if err := h.plans.CreatePlan(r.Context(), plan); err != nil {
		if errors.Is(err, service.ErrInvalidModel) {
			render(w, r, h.renderer, h.logger, http.StatusBadRequest, ViewCreate, formModel(plan, err))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, communityPath, http.StatusSeeOther)
}

// Community handles GET /Plans/Community
func (h *PlansHandler) Community(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListPlans(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render(w, r, h.renderer, h.logger, http.StatusOK, ViewCommunity, plans)
}

// Edit handles GET /Plans/Edit/{id}
func (h *PlansHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render(w, r, h.renderer, h.logger, http.StatusOK, ViewEdit, PlanFormModel{Plan: plan})
}

// UpdatePlan handles POST /Plans/UpdatePlan
func (h *PlansHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.PostForm.Get("Id")), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	plan := planFromForm(r.PostForm)
	plan.ID = id

	if err := h.plans.UpdatePlan(r.Context(), id, plan); err != nil {
		if errors.Is(err, service.ErrInvalidModel) {
			render(w, r, h.renderer, h.logger, http.StatusBadRequest, ViewEdit, formModel(plan, err))
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, communityPath, http.StatusSeeOther)
}

// Delete handles POST /Plans/Delete/{id}
func (h *PlansHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	if err := h.plans.DeletePlan(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	http.Redirect(w, r, communityPath, http.StatusSeeOther)
}

// handleServiceError answers unknown plans with a bare 404 and everything
// else with the error page
func (h *PlansHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	h.logger.Errorw("Plans page request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path)
	renderErrorPage(w, r, h.renderer, h.logger, http.StatusInternalServerError)
}

// planFromForm binds the posted form fields onto a plan
func planFromForm(form url.Values) *domain.TrainingPlan {
	return &domain.TrainingPlan{
		Name:         form.Get("Name"),
		Description:  form.Get("Description"),
		Exercises:    form.Get("Exercises"),
		TrainingDays: form.Get("TrainingDays"),
		CreatedBy:    form.Get("CreatedBy"),
	}
}

// formModel re-populates a form with the per field validation messages
func formModel(plan *domain.TrainingPlan, err error) PlanFormModel {
	model := PlanFormModel{Plan: plan, Errors: map[string]string{}}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		model.Errors = verr.Messages()
	}
	return model
}
