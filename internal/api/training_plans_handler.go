package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/milosz-sonski/training-plans-api/internal/service"
	"go.uber.org/zap"
)

// PlanService defines the plan operations the HTTP layer depends on
type PlanService interface {
	ListPlans(ctx context.Context) ([]*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, id int64) (*domain.TrainingPlan, error)
	CreatePlan(ctx context.Context, plan *domain.TrainingPlan) error
	UpdatePlan(ctx context.Context, id int64, plan *domain.TrainingPlan) error
	DeletePlan(ctx context.Context, id int64) error
	ExportSnapshot(ctx context.Context) (*domain.Snapshot, error)
	Ready(ctx context.Context) error
}

// TrainingPlansHandler serves the JSON API under /api/trainingplans
type TrainingPlansHandler struct {
	plans  PlanService
	logger *zap.SugaredLogger
}

// NewTrainingPlansHandler creates a new REST handler
func NewTrainingPlansHandler(plans PlanService, logger *zap.SugaredLogger) *TrainingPlansHandler {
	return &TrainingPlansHandler{
		plans:  plans,
		logger: logger,
	}
}

// ListTrainingPlans handles GET /api/trainingplans
func (h *TrainingPlansHandler) ListTrainingPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.plans.ListPlans(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, plans)
}

// GetTrainingPlan handles GET /api/trainingplans/{id}
func (h *TrainingPlansHandler) GetTrainingPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageInvalidID)
		return
	}

	plan, err := h.plans.GetPlan(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	respondWithJSON(w, h.logger, http.StatusOK, plan)
}

// PostTrainingPlan handles POST /api/trainingplans
func (h *TrainingPlansHandler) PostTrainingPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.decodePlan(w, r)
	if !ok {
		return
	}

	if err := h.plans.CreatePlan(r.Context(), plan); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/trainingplans/%d", plan.ID))
	respondWithJSON(w, h.logger, http.StatusCreated, plan)
}

// PutTrainingPlan handles PUT /api/trainingplans/{id}
func (h *TrainingPlansHandler) PutTrainingPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageInvalidID)
		return
	}

	plan, ok := h.decodePlan(w, r)
	if !ok {
		return
	}

	if err := h.plans.UpdatePlan(r.Context(), id, plan); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTrainingPlan handles DELETE /api/trainingplans/{id}
func (h *TrainingPlansHandler) DeleteTrainingPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageInvalidID)
		return
	}

	if err := h.plans.DeletePlan(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportTrainingPlans handles POST /api/trainingplans/export
func (h *TrainingPlansHandler) ExportTrainingPlans(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.plans.ExportSnapshot(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Location", snapshot.URL)
	respondWithJSON(w, h.logger, http.StatusCreated, snapshot)
}

// decodePlan reads a plan from the JSON body. It writes the Invalid model
// envelope and returns false when the body cannot be decoded.
func (h *TrainingPlansHandler) decodePlan(w http.ResponseWriter, r *http.Request) (*domain.TrainingPlan, bool) {
	var plan domain.TrainingPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		h.logger.Debugw("Failed to decode training plan", "error", err, "path", r.URL.Path)
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageInvalidModel)
		return nil, false
	}
	return &plan, true
}

// handleServiceError maps service errors onto the error envelope
func (h *TrainingPlansHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithJSON(w, h.logger, http.StatusNotFound, domain.NotFoundEnvelope())
	case errors.Is(err, service.ErrIDMismatch):
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageIDMismatch)
	case errors.Is(err, service.ErrInvalidModel):
		respondWithError(w, h.logger, http.StatusBadRequest, domain.MessageInvalidModel)
	case errors.Is(err, service.ErrAlreadyExists):
		respondWithError(w, h.logger, http.StatusConflict, domain.MessagePlanExists)
	case errors.Is(err, service.ErrStorageUnavailable):
		respondWithError(w, h.logger, http.StatusServiceUnavailable, domain.MessageStorageUnavailable)
	default:
		h.logger.Errorw("Training plan request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		respondWithError(w, h.logger, http.StatusInternalServerError, domain.MessageInternalError)
	}
}
