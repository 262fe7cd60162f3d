// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordflash_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordflash_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	AnswersGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordflash_answers_graded_total",
			Help: "Answers graded, by question type and outcome",
		},
		[]string{"type", "outcome"},
	)

	SessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordflash_sessions_completed_total",
		Help: "Practice sessions committed",
	})

	TasksBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordflash_tasks_built_total",
			Help: "Daily tasks built, by trigger",
		},
		[]string{"trigger"},
	)

	LockConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wordflash_lock_conflicts_total",
		Help: "Lock acquisitions that timed out",
	})

	PrebuildQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "wordflash_prebuild_queue_depth",
		Help: "Prebuild jobs waiting for a worker",
	})
)

var initOnce sync.Once

// Init registers every collector with the default registry. Safe to call twice.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			AnswersGraded,
			SessionsCompleted,
			TasksBuilt,
			LockConflicts,
			PrebuildQueueDepth,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	RequestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Outcome labels a grading result.
func Outcome(correct, skipped bool) string {
	switch {
	case skipped:
		return "skipped"
	case correct:
		return "correct"
	default:
		return "incorrect"
	}
}
