package api

import (
	"net/http"

	"go.uber.org/zap"
)

// HomeHandler serves the landing and error pages
type HomeHandler struct {
	renderer Renderer
	logger   *zap.SugaredLogger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(renderer Renderer, logger *zap.SugaredLogger) *HomeHandler {
	return &HomeHandler{
		renderer: renderer,
		logger:   logger,
	}
}

// Index handles GET /
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, h.logger, http.StatusOK, ViewIndex, nil)
}

// Error handles GET /Home/Error
func (h *HomeHandler) Error(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, h.logger, http.StatusOK, ViewError, newErrorViewModel(r))
}
