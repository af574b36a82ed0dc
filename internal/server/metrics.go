package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liftboard",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})
	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "liftboard",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	openDrafts = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "liftboard",
		Subsystem: "drafts",
		Name:      "open",
		Help:      "Edit sessions currently open.",
	})
	editOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "liftboard",
		Subsystem: "drafts",
		Name:      "edit_operations_total",
		Help:      "Editor operations applied to drafts, by operation and outcome.",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, openDrafts, editOperations)
}

// Metrics records request counts and latency keyed by the matched route
// pattern, so ids in the path do not explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// SetOpenDrafts publishes the current number of open edit sessions.
func SetOpenDrafts(n int) {
	openDrafts.Set(float64(n))
}

func recordEdit(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	editOperations.WithLabelValues(op, outcome).Inc()
}
