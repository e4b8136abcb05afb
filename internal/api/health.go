package api

import (
	"context"
	"net/http"
)

// HealthHandler returns a simple health check handler function
// that responds with a 200 OK status and JSON {"status":"ok"}
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

// ReadinessChecker reports whether the backing store can serve requests
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// ReadinessHandler reports whether the plan store answers. It responds with
// 503 and {"status":"unavailable"} when it does not.
func ReadinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := checker.Ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}
