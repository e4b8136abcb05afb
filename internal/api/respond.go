package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"go.uber.org/zap"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, logger *zap.SugaredLogger, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out, only the log is left
		logger.Errorw("Failed to encode JSON response", "error", err)
	}
}

// respondWithError sends the error envelope for code
func respondWithError(w http.ResponseWriter, logger *zap.SugaredLogger, code int, message string) {
	respondWithJSON(w, logger, code, domain.NewErrorEnvelope(code, message))
}

// parseID reads the integer {id} route parameter
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
