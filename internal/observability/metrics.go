package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "training_plans"

// Plan operation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method, route pattern and status code.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	planOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_operations_total",
		Help:      "Training plan operations, by operation and outcome.",
	}, []string{"operation", "outcome"})
	lastExport = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "export",
		Name:      "last_snapshot_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful snapshot export.",
	})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, planOperations, lastExport)
}

// Handler exposes the registered metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPlanOperation counts one plan operation with its outcome
func RecordPlanOperation(operation, outcome string) {
	planOperations.WithLabelValues(operation, outcome).Inc()
}

// PlanOperationCount returns the current counter value (helper for tests)
func PlanOperationCount(operation, outcome string) float64 {
	return counterValue(planOperations.WithLabelValues(operation, outcome))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// RecordSnapshotExported updates the export watermark gauge
func RecordSnapshotExported(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastExport.Set(float64(ts.Unix()))
}

// Middleware records request count and latency per chi route pattern.
// Unmatched requests are grouped under a single label.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
