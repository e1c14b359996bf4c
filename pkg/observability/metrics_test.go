package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/strips/internal/grounder"
	"github.com/aretw0/strips/internal/search"
	"github.com/aretw0/strips/internal/testutils"
	"github.com/aretw0/strips/pkg/domain"
	"github.com/aretw0/strips/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, m *observability.Metrics, cfg search.Config) *domain.Result {
	t.Helper()
	task, err := grounder.Ground(testutils.Intersection())
	require.NoError(t, err)
	eng, err := search.NewEngine(task, search.WithConfig(cfg), search.WithHooks(m.Hooks()))
	require.NoError(t, err)
	res, err := eng.Search(context.Background())
	require.NoError(t, err)
	return res
}

// samples returns the observation count of a histogram family.
func samples(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	var n uint64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			n += metric.GetHistogram().GetSampleCount()
		}
	}
	return n
}

func TestMetrics_Solved(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	res := run(t, m, search.Config{})
	require.True(t, res.Solved())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches))
	assert.Equal(t, float64(res.Stats.Expanded), testutil.ToFloat64(m.Expanded))
	assert.Equal(t, float64(res.Stats.Generated), testutil.ToFloat64(m.Generated))
	assert.Equal(t, float64(res.Stats.Duplicates), testutil.ToFloat64(m.Duplicates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("solved", "")))
	assert.EqualValues(t, 1, samples(t, reg, "strips_plan_length"))
	assert.EqualValues(t, 1, samples(t, reg, "strips_search_duration_seconds"))
}

func TestMetrics_BudgetExceeded(t *testing.T) {
	m := observability.NewMetrics(nil)

	res := run(t, m, search.Config{MaxExpansions: 1})
	require.Equal(t, domain.OutcomeBudgetExceeded, res.Outcome)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Expanded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("budget_exceeded", "max_expansions")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("solved", "")))
}

func TestMetrics_MergeWithOtherHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	var finished int
	hooks := m.Hooks().Merge(domain.SearchHooks{
		OnFinish: func(context.Context, *domain.FinishEvent) { finished++ },
	})

	hooks.OnStart(context.Background(), &domain.SearchEvent{})
	hooks.OnFinish(context.Background(), &domain.FinishEvent{Outcome: domain.OutcomeUnsolvable})

	assert.Equal(t, 1, finished)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("unsolvable", "")))
	assert.Zero(t, samples(t, reg, "strips_plan_length"), "plan length is only observed for solved runs")
}

func TestNewMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}
