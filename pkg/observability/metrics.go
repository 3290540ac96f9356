package observability

import (
	"context"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "punchline"

// Metrics holds the collectors fed by the engine hooks.
type Metrics struct {
	StateVisits     *prometheus.CounterVec
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	Outcomes        *prometheus.CounterVec
	Similarity      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StateVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "state_visits_total",
				Help:      "Total number of state entries.",
			},
			[]string{"state"},
		),
		ServiceCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "service_calls_total",
				Help:      "Calls to external services by result.",
			},
			[]string{"service", "op", "result"},
		),
		ServiceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "service_duration_seconds",
				Help:      "Duration of external service calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "op"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "outcomes_total",
				Help:      "Joke loop outcomes (generated, approved, duplicate...).",
			},
			[]string{"outcome", "category"},
		),
		Similarity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "nearest_similarity",
				Help:      "Cosine similarity of the nearest stored joke at duplicate checks.",
				Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.StateVisits, m.ServiceCalls, m.ServiceDuration, m.Outcomes, m.Similarity)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateEnter: func(_ context.Context, e *domain.StateEvent) {
			m.StateVisits.WithLabelValues(string(e.State)).Inc()
		},
		OnServiceReturn: func(_ context.Context, e *domain.ServiceEvent) {
			result := "ok"
			if e.IsError {
				result = "error"
			}
			m.ServiceCalls.WithLabelValues(e.Service, e.Op, result).Inc()
			m.ServiceDuration.WithLabelValues(e.Service, e.Op).Observe(e.Duration.Seconds())
		},
		OnOutcome: func(_ context.Context, e *domain.OutcomeEvent) {
			m.Outcomes.WithLabelValues(string(e.Outcome), string(e.Category)).Inc()
			if e.Outcome == domain.OutcomeDuplicate || e.Outcome == domain.OutcomeSuppressed {
				m.Similarity.Observe(e.Score)
			}
		},
	}
}
