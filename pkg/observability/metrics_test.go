package observability_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnStateEnter(ctx, &domain.StateEvent{State: domain.StateMenu})
	hooks.OnStateEnter(ctx, &domain.StateEvent{State: domain.StateMenu})
	hooks.OnStateEnter(ctx, &domain.StateEvent{State: domain.StateGenerate})

	hooks.OnServiceReturn(ctx, &domain.ServiceEvent{Service: "generator", Op: "generate", Duration: 200 * time.Millisecond})
	hooks.OnServiceReturn(ctx, &domain.ServiceEvent{Service: "index", Op: "query", IsError: true})

	hooks.OnOutcome(ctx, &domain.OutcomeEvent{Outcome: domain.OutcomeDuplicate, Category: domain.CategoryGeneral, Score: 0.91})
	hooks.OnOutcome(ctx, &domain.OutcomeEvent{Outcome: domain.OutcomeCommitted, Category: domain.CategoryGeneral})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StateVisits.WithLabelValues("menu")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateVisits.WithLabelValues("generate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("generator", "generate", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("index", "query", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("duplicate", "general")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("committed", "general")))

	expected := `
# HELP punchline_nearest_similarity Cosine similarity of the nearest stored joke at duplicate checks.
# TYPE punchline_nearest_similarity histogram
punchline_nearest_similarity_bucket{le="0.1"} 0
punchline_nearest_similarity_bucket{le="0.2"} 0
punchline_nearest_similarity_bucket{le="0.3"} 0
punchline_nearest_similarity_bucket{le="0.4"} 0
punchline_nearest_similarity_bucket{le="0.5"} 0
punchline_nearest_similarity_bucket{le="0.6"} 0
punchline_nearest_similarity_bucket{le="0.7"} 0
punchline_nearest_similarity_bucket{le="0.8"} 0
punchline_nearest_similarity_bucket{le="0.85"} 0
punchline_nearest_similarity_bucket{le="0.9"} 0
punchline_nearest_similarity_bucket{le="0.95"} 1
punchline_nearest_similarity_bucket{le="1"} 1
punchline_nearest_similarity_bucket{le="+Inf"} 1
punchline_nearest_similarity_sum 0.91
punchline_nearest_similarity_count 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "punchline_nearest_similarity"))
}

func TestMetrics_MergeWithOtherHooks(t *testing.T) {
	m := observability.NewMetrics(nil)
	called := false
	hooks := m.Hooks().Merge(domain.LifecycleHooks{
		OnStateEnter: func(context.Context, *domain.StateEvent) { called = true },
	})

	hooks.OnStateEnter(context.Background(), &domain.StateEvent{State: domain.StateBrowse})
	assert.True(t, called)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateVisits.WithLabelValues("browse")))
}
