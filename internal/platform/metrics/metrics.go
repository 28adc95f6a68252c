package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid everywhere; recording methods no-op so tests can
// construct services without touching the default registry.
type Metrics struct {
	UsersRegistered prometheus.Counter
	LoginAttempts   *prometheus.CounterVec
	TodosCreated    prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskbox_users_registered_total",
			Help: "Total number of users registered in the system",
		}),
		LoginAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskbox_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		TodosCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskbox_todos_created_total",
			Help: "Total number of todo items created",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskbox_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordUserRegistered increments the registered-users counter by 1.
func (m *Metrics) RecordUserRegistered() {
	if m == nil {
		return
	}
	m.UsersRegistered.Inc()
}

// RecordLogin records one login attempt with the given outcome
// ("succeeded" or "failed").
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordTodoCreated increments the created-todos counter by 1.
func (m *Metrics) RecordTodoCreated() {
	if m == nil {
		return
	}
	m.TodosCreated.Inc()
}

// ObserveRequestDuration records one HTTP request's latency.
func (m *Metrics) ObserveRequestDuration(method, route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
