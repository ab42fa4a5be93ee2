package domain

import (
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCascadeStart EventType = "cascade_start"
	EventTransition   EventType = "transition"
	EventRuleFired    EventType = "rule_fired"
	EventCascadeEnd   EventType = "cascade_end"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	CascadeID string    `json:"cascade_id"` // Groups every event caused by one Apply call
}

// TransitionEvent is emitted after an entity's state has been overwritten.
// Rule is nil for the externally requested change that started the cascade.
type TransitionEvent struct {
	EventBase
	Entity string `json:"entity"`
	From   Status `json:"from"`
	To     Status `json:"to"`
	Depth  int    `json:"depth"`
	Rule   Rule   `json:"-"`
}

// RuleEvent is emitted when a rule's condition holds and its action is about to run.
type RuleEvent struct {
	EventBase
	Rule    Rule   `json:"-"`
	Trigger string `json:"trigger"` // Entity whose change caused the evaluation
	Depth   int    `json:"depth"`
}

// CascadeEvent marks the start and the end of one Apply call.
type CascadeEvent struct {
	EventBase
	Root        string        `json:"root"`
	Transitions int           `json:"transitions,omitempty"`
	Firings     int           `json:"firings,omitempty"`
	MaxDepth    int           `json:"max_depth,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Err         error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the calling goroutine and must not call back into the engine.
type LifecycleHooks struct {
	OnCascadeStart func(*CascadeEvent)
	OnTransition   func(*TransitionEvent)
	OnRuleFired    func(*RuleEvent)
	OnCascadeEnd   func(*CascadeEvent)
}

// EntityState is one row of an aggregate snapshot.
type EntityState struct {
	Name  string `json:"name"`
	Role  Role   `json:"role"`
	State Status `json:"state"`
}

// Snapshot is the aggregate state: every registered entity in registration order.
type Snapshot []EntityState

// Get returns the state recorded for name.
func (s Snapshot) Get(name string) (Status, bool) {
	for _, es := range s {
		if es.Name == name {
			return es.State, true
		}
	}
	return "", false
}
