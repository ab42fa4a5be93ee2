package observability_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildChain(t *testing.T, hooks domain.LifecycleHooks) (*cascade.Engine, *domain.Entity) {
	t.Helper()
	a, b, c := domain.NewTask("a"), domain.NewTask("b"), domain.NewTask("c")
	eng := cascade.New(cascade.WithLifecycleHooks(hooks))
	for _, ent := range []*domain.Entity{a, b, c} {
		require.NoError(t, eng.RegisterEntity(ent))
	}
	require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusCompleted, b, domain.StatusInProgress)))
	require.NoError(t, eng.RegisterRule(domain.NewMerge([]*domain.Entity{a, b}, domain.StatusInProgress, c, domain.StatusFailed)))
	require.NoError(t, eng.RegisterRule(domain.NewLink(b, domain.StatusInProgress, c, domain.StatusInProgress)))
	return eng, a
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	eng, a := buildChain(t, m.Hooks())
	require.NoError(t, eng.Apply(a, domain.StatusCompleted))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("a", "COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("b", "IN_PROGRESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Transitions.WithLabelValues("c", "IN_PROGRESS")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RuleFirings.WithLabelValues("link")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RuleFirings.WithLabelValues("merge")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LimitErrors))

	count, err := testutil.GatherAndCount(reg, "cascade_transitions_per_cascade")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_LimitErrors(t *testing.T) {
	m, err := observability.NewMetrics(nil)
	require.NoError(t, err)

	a, b := domain.NewTask("a"), domain.NewTask("b")
	eng := cascade.New(cascade.WithLifecycleHooks(m.Hooks()), cascade.WithMaxTransitions(10))
	require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusInProgress, b, domain.StatusInProgress)))
	require.NoError(t, eng.RegisterRule(domain.NewLink(b, domain.StatusInProgress, a, domain.StatusInProgress)))

	assert.ErrorIs(t, eng.Apply(a, domain.StatusInProgress), domain.ErrCascadeLimit)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LimitErrors))
}

func TestNewMetrics_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := observability.NewMetrics(reg)
	require.NoError(t, err)
	second, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	second.LimitErrors.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.LimitErrors))
}

func TestCombine(t *testing.T) {
	var order []string
	h1 := domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { order = append(order, "h1:"+e.Entity) },
	}
	h2 := domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { order = append(order, "h2:"+e.Entity) },
		OnCascadeEnd: func(e *domain.CascadeEvent) { order = append(order, "h2:end") },
	}

	combined := observability.Combine(h1, domain.LifecycleHooks{}, h2)
	assert.Nil(t, combined.OnRuleFired)
	assert.Nil(t, combined.OnCascadeStart)

	eng, a := buildChain(t, combined)
	require.NoError(t, eng.Apply(a, domain.StatusCompleted))

	assert.Equal(t, []string{"h1:a", "h2:a", "h1:b", "h2:b", "h1:c", "h2:c", "h2:end"}, order)
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	eng, a := buildChain(t, observability.LogHooks(logger))
	require.NoError(t, eng.Apply(a, domain.StatusCompleted))

	out := buf.String()
	assert.Contains(t, out, "msg=rule_fired")
	assert.Contains(t, out, "trigger=a")
	assert.Contains(t, out, "msg=cascade_end")
	assert.Contains(t, out, "transitions=3")
}
