package runtime

import (
	"fmt"

	"github.com/aretw0/cascade/pkg/domain"
)

// frame is one level of the depth-first walk: the entity whose change is being
// propagated and the index of the next rule to evaluate for it.
type frame struct {
	entity *domain.Entity
	next   int
	depth  int
}

type cascade struct {
	id          string
	transitions int
	firings     int
	maxDepth    int
}

// Apply sets entity to status and propagates the change until no rule fires.
//
// Rules are scanned in registration order for every changed entity. When a rule
// fires, its target is updated and the target's own scan runs to completion before
// the scan of the triggering entity resumes at the next rule. The change is applied
// even when entity already holds status, and the scan still runs.
//
// Rule graphs are expected to be acyclic or convergent. A divergent cascade stops
// with ErrCascadeLimit once the transition cap is reached; changes already applied
// are kept.
func (e *Engine) Apply(entity *domain.Entity, status domain.Status) error {
	if entity == nil {
		e.logger.Error("state change rejected", "err", domain.ErrNilEntity, "to", status)
		return domain.ErrNilEntity
	}

	c := &cascade{id: e.newID()}
	started := e.now()
	if e.hooks.OnCascadeStart != nil {
		e.hooks.OnCascadeStart(&domain.CascadeEvent{
			EventBase: e.base(domain.EventCascadeStart, c),
			Root:      entity.Name(),
		})
	}

	e.transition(c, entity, status, nil, 0)
	err := e.propagate(c, entity)
	if err != nil {
		e.logger.Warn("cascade aborted",
			"cascade_id", c.id,
			"root", entity.Name(),
			"transitions", c.transitions,
			"err", err,
		)
	}

	if e.hooks.OnCascadeEnd != nil {
		e.hooks.OnCascadeEnd(&domain.CascadeEvent{
			EventBase:   e.base(domain.EventCascadeEnd, c),
			Root:        entity.Name(),
			Transitions: c.transitions,
			Firings:     c.firings,
			MaxDepth:    c.maxDepth,
			Duration:    e.now().Sub(started),
			Err:         err,
		})
	}
	return err
}

// propagate walks the rule set depth-first with an explicit stack, which keeps
// the exact order of a recursive walk without growing the goroutine stack.
func (e *Engine) propagate(c *cascade, root *domain.Entity) error {
	stack := []frame{{entity: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		idx := e.nextFiring(top.entity, top.next)
		if idx < 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		top.next = idx + 1

		if e.maxTransitions > 0 && c.transitions >= e.maxTransitions {
			return fmt.Errorf("%w: %d transitions starting from %q",
				domain.ErrCascadeLimit, c.transitions, root.Name())
		}

		rule := e.rules[idx]
		trigger := top.entity
		depth := top.depth + 1
		c.firings++
		if e.hooks.OnRuleFired != nil {
			e.hooks.OnRuleFired(&domain.RuleEvent{
				EventBase: e.base(domain.EventRuleFired, c),
				Rule:      rule,
				Trigger:   trigger.Name(),
				Depth:     depth,
			})
		}

		target := rule.Target()
		e.transition(c, target, rule.TargetState(), rule, depth)
		stack = append(stack, frame{entity: target, depth: depth})
	}
	return nil
}

// nextFiring returns the index of the first rule at or after from that fires for changed, or -1.
func (e *Engine) nextFiring(changed *domain.Entity, from int) int {
	for i := from; i < len(e.rules); i++ {
		if e.rules[i].Fires(changed) {
			return i
		}
	}
	return -1
}

func (e *Engine) transition(c *cascade, entity *domain.Entity, to domain.Status, cause domain.Rule, depth int) {
	from := entity.SetState(to)
	c.transitions++
	if depth > c.maxDepth {
		c.maxDepth = depth
	}

	e.logger.Debug("state change",
		"cascade_id", c.id,
		"entity", entity.Name(),
		"from", from,
		"to", to,
		"depth", depth,
	)

	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(&domain.TransitionEvent{
			EventBase: e.base(domain.EventTransition, c),
			Entity:    entity.Name(),
			From:      from,
			To:        to,
			Depth:     depth,
			Rule:      cause,
		})
	}
}

func (e *Engine) base(t domain.EventType, c *cascade) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		CascadeID: c.id,
	}
}
