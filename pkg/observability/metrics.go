package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/actionpack/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by pipeline lifecycle hooks.
type Metrics struct {
	Declarations prometheus.Counter
	Dispatches   *prometheus.CounterVec
	Effects      *prometheus.CounterVec
	Middleware   *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Declarations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "actionpack_declarations_total",
			Help: "Total number of declared actions",
		}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actionpack_dispatch_total",
			Help: "Total number of dispatch cycles",
		}, []string{"action"}),
		Effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actionpack_effects_emitted_total",
			Help: "Total number of effect descriptors emitted",
		}, []string{"action"}),
		Middleware: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "actionpack_middleware_applied_total",
			Help: "Total number of middleware transformations applied",
		}, []string{"action"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "actionpack_dispatch_duration_seconds",
			Help:    "Duration of dispatch cycles",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"action"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Declarations, m.Dispatches, m.Effects, m.Middleware, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDeclare: func(e *domain.DeclareEvent) {
			m.Declarations.Inc()
		},
		OnDispatch: func(e *domain.DispatchEvent) {
			m.Dispatches.WithLabelValues(e.Action).Inc()
			m.Effects.WithLabelValues(e.Action).Add(float64(e.Effects))
			m.Middleware.WithLabelValues(e.Action).Add(float64(e.Middleware))
			m.Duration.WithLabelValues(e.Action).Observe(e.Duration.Seconds())
		},
	}
}
