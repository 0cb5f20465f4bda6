package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nothotgamer/hostelixpro/internals/helpers/apperr"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hostelixpro",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hostelixpro",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hostelixpro",
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Workflow operations by entity, action and outcome.",
		},
		[]string{"entity", "action", "outcome"},
	)

	overdueRoutines = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hostelixpro",
			Subsystem: "routines",
			Name:      "overdue_returns",
			Help:      "Approved exits whose expected return time has passed.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hostelixpro",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job runs.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		transitions,
		overdueRoutines,
		jobRuns,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Middleware records request count and latency per route template.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}

		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// RecordTransition counts one workflow operation. The outcome is "ok",
// the lower-cased error kind, or "error" for infrastructure failures.
func RecordTransition(entity, action string, err error) {
	transitions.WithLabelValues(entity, action, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := apperr.KindOf(err); kind != "" {
		return strings.ToLower(string(kind))
	}
	return "error"
}

func SetOverdueRoutines(n int64) {
	overdueRoutines.Set(float64(n))
}

func RecordJobRun(job string, ok bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(ok)).Inc()
}
