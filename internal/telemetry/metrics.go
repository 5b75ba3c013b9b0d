// Package telemetry provides the Forest's Prometheus metrics and OpenTelemetry
// tracer, grounded on the teacher's pkg/observability package: a nil-safe
// Metrics struct so callers can pass a nil *Metrics when metrics are
// disabled instead of branching at every call site.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for Forest executions, task dispatch,
// and the agent turns that drive them.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	forestExecutions       *prometheus.CounterVec
	forestExecutionSeconds *prometheus.HistogramVec
	forestIterations       *prometheus.HistogramVec

	tasksDispatched *prometheus.CounterVec
	taskSeconds     *prometheus.HistogramVec

	agentTurns        *prometheus.CounterVec
	agentTurnDuration *prometheus.HistogramVec
	agentTurnErrors   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance under namespace, registered against
// a fresh Prometheus registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{namespace: namespace, registry: prometheus.NewRegistry()}

	m.forestExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "forest", Name: "executions_total",
		Help: "Total number of Forest.Execute calls, by outcome.",
	}, []string{"outcome"})

	m.forestExecutionSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "forest", Name: "execution_duration_seconds",
		Help: "Wall-clock duration of a full Forest.Execute call.", Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"outcome"})

	m.forestIterations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "forest", Name: "execute_iterations",
		Help: "Number of execute-phase iterations consumed before completion or termination.", Buckets: prometheus.LinearBuckets(0, 2, 12),
	}, []string{"outcome"})

	m.tasksDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "task", Name: "dispatched_total",
		Help: "Total number of tasks dispatched to an agent, by final status; status cascaded_failed counts tasks failed for an upstream failure without being dispatched.",
	}, []string{"status"})

	m.taskSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "task", Name: "duration_seconds",
		Help: "Duration of a single task dispatch (one agent turn).", Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"status"})

	m.agentTurns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "agent", Name: "turns_total",
		Help: "Total number of agent chat turns invoked by the orchestrator.",
	}, []string{"agent_name"})

	m.agentTurnDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Subsystem: "agent", Name: "turn_duration_seconds",
		Help: "Duration of a single agent.Chat call.", Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"agent_name"})

	m.agentTurnErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "agent", Name: "turn_errors_total",
		Help: "Total number of agent.Chat calls that returned an error.",
	}, []string{"agent_name"})

	m.registry.MustRegister(
		m.forestExecutions, m.forestExecutionSeconds, m.forestIterations,
		m.tasksDispatched, m.taskSeconds,
		m.agentTurns, m.agentTurnDuration, m.agentTurnErrors,
	)
	return m
}

// RecordExecution records the outcome and duration of one Forest.Execute call.
func (m *Metrics) RecordExecution(outcome string, duration time.Duration, iterations int) {
	if m == nil {
		return
	}
	m.forestExecutions.WithLabelValues(outcome).Inc()
	m.forestExecutionSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
	m.forestIterations.WithLabelValues(outcome).Observe(float64(iterations))
}

// RecordTask records the outcome and duration of one task dispatch.
func (m *Metrics) RecordTask(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.tasksDispatched.WithLabelValues(status).Inc()
	m.taskSeconds.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordAgentTurn records one agent.Chat invocation.
func (m *Metrics) RecordAgentTurn(agentName string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.agentTurns.WithLabelValues(agentName).Inc()
	m.agentTurnDuration.WithLabelValues(agentName).Observe(duration.Seconds())
	if err != nil {
		m.agentTurnErrors.WithLabelValues(agentName).Inc()
	}
}

// Handler exposes the metrics registry over HTTP for scraping.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}
