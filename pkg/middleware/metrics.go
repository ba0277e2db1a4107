package middleware

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noahunallar/braid/pkg/domain"
)

// Metrics bundles Prometheus collectors for store activity.
type Metrics struct {
	Dispatches *prometheus.CounterVec
	Errors     *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates and registers the store collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "braid_dispatches_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"action_type"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "braid_dispatch_errors_total",
				Help: "Total number of reducer errors",
			},
			[]string{"slice"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "braid_dispatch_duration_seconds",
				Help: "Duration of state-changing dispatch cycles",
			},
			[]string{"action_type"},
		),
	}
	reg.MustRegister(m.Dispatches, m.Errors, m.Duration)
	return m
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, e *domain.DispatchEvent) {
			m.Dispatches.WithLabelValues(e.ActionType).Inc()
		},
		OnStateChange: func(_ context.Context, e *domain.DispatchEvent) {
			m.Duration.WithLabelValues(e.ActionType).Observe(e.Duration.Seconds())
		},
		OnError: func(_ context.Context, e *domain.ErrorEvent) {
			m.Errors.WithLabelValues(e.Key).Inc()
		},
	}
}
