package observability

import (
	"errors"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine's lifecycle hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	RuleFirings *prometheus.CounterVec
	Steps       prometheus.Histogram
	Depth       prometheus.Histogram
	LimitErrors prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// Collectors already registered on reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_transitions_total",
				Help: "Total number of entity state changes, by entity and new state",
			},
			[]string{"entity", "to"},
		),
		RuleFirings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cascade_rule_firings_total",
				Help: "Total number of rule firings, by rule kind",
			},
			[]string{"kind"},
		),
		Steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cascade_transitions_per_cascade",
			Help:    "Number of transitions performed by one Apply call",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Depth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cascade_depth",
			Help:    "Deepest rule chain reached by one Apply call",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		LimitErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cascade_limit_errors_total",
			Help: "Cascades aborted by the transition cap",
		}),
	}

	if reg != nil {
		var err error
		if m.Transitions, err = registerOrReuse(reg, m.Transitions); err != nil {
			return nil, err
		}
		if m.RuleFirings, err = registerOrReuse(reg, m.RuleFirings); err != nil {
			return nil, err
		}
		if m.Steps, err = registerOrReuse(reg, m.Steps); err != nil {
			return nil, err
		}
		if m.Depth, err = registerOrReuse(reg, m.Depth); err != nil {
			return nil, err
		}
		if m.LimitErrors, err = registerOrReuse(reg, m.LimitErrors); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	return c, err
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(e.Entity, string(e.To)).Inc()
		},
		OnRuleFired: func(e *domain.RuleEvent) {
			m.RuleFirings.WithLabelValues(string(e.Rule.Kind())).Inc()
		},
		OnCascadeEnd: func(e *domain.CascadeEvent) {
			m.Steps.Observe(float64(e.Transitions))
			m.Depth.Observe(float64(e.MaxDepth))
			if errors.Is(e.Err, domain.ErrCascadeLimit) {
				m.LimitErrors.Inc()
			}
		},
	}
}
