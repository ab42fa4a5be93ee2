package observability

import (
	"log/slog"

	"github.com/aretw0/cascade/pkg/domain"
)

// Combine fans every callback out to all non-nil callbacks of hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var (
		starts      []func(*domain.CascadeEvent)
		transitions []func(*domain.TransitionEvent)
		firings     []func(*domain.RuleEvent)
		ends        []func(*domain.CascadeEvent)
	)
	for _, h := range hooks {
		if h.OnCascadeStart != nil {
			starts = append(starts, h.OnCascadeStart)
		}
		if h.OnTransition != nil {
			transitions = append(transitions, h.OnTransition)
		}
		if h.OnRuleFired != nil {
			firings = append(firings, h.OnRuleFired)
		}
		if h.OnCascadeEnd != nil {
			ends = append(ends, h.OnCascadeEnd)
		}
	}

	var out domain.LifecycleHooks
	if len(starts) > 0 {
		out.OnCascadeStart = func(e *domain.CascadeEvent) {
			for _, fn := range starts {
				fn(e)
			}
		}
	}
	if len(transitions) > 0 {
		out.OnTransition = func(e *domain.TransitionEvent) {
			for _, fn := range transitions {
				fn(e)
			}
		}
	}
	if len(firings) > 0 {
		out.OnRuleFired = func(e *domain.RuleEvent) {
			for _, fn := range firings {
				fn(e)
			}
		}
	}
	if len(ends) > 0 {
		out.OnCascadeEnd = func(e *domain.CascadeEvent) {
			for _, fn := range ends {
				fn(e)
			}
		}
	}
	return out
}

// LogHooks logs every rule firing and cascade outcome with logger.
// Individual transitions are already logged by the engine at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleFired: func(e *domain.RuleEvent) {
			logger.Debug("rule_fired",
				"cascade_id", e.CascadeID,
				"kind", e.Rule.Kind(),
				"trigger", e.Trigger,
				"target", e.Rule.Target().Name(),
				"depth", e.Depth,
			)
		},
		OnCascadeEnd: func(e *domain.CascadeEvent) {
			attrs := []any{
				"cascade_id", e.CascadeID,
				"root", e.Root,
				"transitions", e.Transitions,
				"firings", e.Firings,
				"max_depth", e.MaxDepth,
				"duration", e.Duration,
			}
			if e.Err != nil {
				logger.Error("cascade_end", append(attrs, "err", e.Err)...)
				return
			}
			logger.Info("cascade_end", attrs...)
		},
	}
}
