package observability

import (
	"context"

	"github.com/aretw0/strips/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "strips"

// Metrics holds the collectors fed by the search hooks.
type Metrics struct {
	Searches   prometheus.Counter
	Expanded   prometheus.Counter
	Generated  prometheus.Counter
	Duplicates prometheus.Counter
	Outcomes   *prometheus.CounterVec
	PlanLength prometheus.Histogram
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is handy in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "searches_total",
			Help:      "Total number of searches started",
		}),
		Expanded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "states_expanded_total",
			Help:      "Total number of states expanded",
		}),
		Generated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "successors_generated_total",
			Help:      "Total number of new successor states",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "duplicates_total",
			Help:      "Total number of states discarded as already expanded",
		}),
		Outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_outcomes_total",
			Help:      "Finished searches by outcome and reason",
		}, []string{"outcome", "reason"}),
		PlanLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "plan_length",
			Help:      "Number of actions in found plans",
			Buckets:   prometheus.LinearBuckets(0, 4, 10),
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of searches",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Searches, m.Expanded, m.Generated, m.Duplicates, m.Outcomes, m.PlanLength, m.Duration)
	}
	return m
}

// Hooks returns search hooks that record into m.
func (m *Metrics) Hooks() domain.SearchHooks {
	return domain.SearchHooks{
		OnStart: func(_ context.Context, _ *domain.SearchEvent) {
			m.Searches.Inc()
		},
		OnExpand: func(_ context.Context, e *domain.ExpandEvent) {
			m.Expanded.Inc()
			m.Generated.Add(float64(e.Successors))
		},
		OnFinish: func(_ context.Context, e *domain.FinishEvent) {
			m.Duplicates.Add(float64(e.Stats.Duplicates))
			m.Outcomes.WithLabelValues(string(e.Outcome), e.Reason).Inc()
			m.Duration.WithLabelValues(string(e.Outcome)).Observe(e.Stats.Elapsed.Seconds())
			if e.Outcome == domain.OutcomeSolved {
				m.PlanLength.Observe(float64(e.PlanLength))
			}
		},
	}
}
