package dsl

import "github.com/aretw0/cascade/pkg/domain"

// Trigger is the first half of a rule declaration: which entities are watched.
type Trigger struct {
	builder *Builder
	sources []string
	merge   bool
}

// Condition is a trigger bound to the state the sources must hold.
type Condition struct {
	trigger *Trigger
	state   domain.Status
}

// Is sets the state the source must reach.
func (t *Trigger) Is(state domain.Status) *Condition {
	return &Condition{trigger: t, state: state}
}

// Are is Is for merge triggers; it reads better after WhenAll.
func (t *Trigger) Are(state domain.Status) *Condition {
	return t.Is(state)
}

// Set completes the rule: the target is moved to state when the condition holds.
// It returns the Builder so declarations can be chained.
func (c *Condition) Set(target string, state domain.Status) *Builder {
	b := c.trigger.builder
	b.rules = append(b.rules, ruleDecl{
		sources:     c.trigger.sources,
		state:       c.state,
		target:      target,
		targetState: state,
		merge:       c.trigger.merge,
	})
	return b
}
