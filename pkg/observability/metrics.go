package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors fed by Hooks. Each Metrics owns its registry,
// so several instances can coexist (one per server, one per test).
type Metrics struct {
	registry *prometheus.Registry

	Runs          *prometheus.CounterVec
	Commands      *prometheus.CounterVec
	Resets        prometheus.Counter
	ProgramLength prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "robobunny_runs_total",
				Help: "Program runs by outcome",
			},
			[]string{"outcome"},
		),
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "robobunny_commands_total",
				Help: "Commands applied to the simulation by kind",
			},
			[]string{"kind"},
		),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "robobunny_resets_total",
			Help: "Controller resets",
		}),
		ProgramLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "robobunny_program_length",
			Help:    "Number of commands in started runs after loop unrolling",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(m.Runs, m.Commands, m.Resets, m.ProgramLength)
	return m
}

// Registry exposes the registry for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.ProgramLength.Observe(float64(e.Length))
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Outcome)).Inc()
		},
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			m.Commands.WithLabelValues(string(e.Command.Kind)).Inc()
		},
		OnReset: func(context.Context, *domain.ResetEvent) {
			m.Resets.Inc()
		},
	}
}
