package domain

import "fmt"

// Role distinguishes the kinds of node an entity plays in a flow.
type Role string

const (
	RoleWorkflow Role = "workflow"
	RoleTask     Role = "task"
)

// Stateful is the read-only capability shared by everything that holds a status.
type Stateful interface {
	Name() string
	State() Status
}

// Change describes a single state overwrite on an entity.
type Change struct {
	Entity *Entity
	From   Status
	To     Status
}

// Entity is a named unit holding exactly one current status.
//
// Entities are compared by identity: two entities with the same name and state
// are still distinct values. State should only be mutated through the engine.
type Entity struct {
	name      string
	role      Role
	state     Status
	observers []func(Change)
}

// EntityOption configures an Entity at construction time.
type EntityOption func(*Entity)

// WithInitialState overrides the default NOT_STARTED initial state.
func WithInitialState(s Status) EntityOption {
	return func(e *Entity) {
		e.state = s
	}
}

// NewEntity creates an entity in the NOT_STARTED state.
func NewEntity(name string, role Role, opts ...EntityOption) *Entity {
	e := &Entity{
		name:  name,
		role:  role,
		state: StatusNotStarted,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWorkflow is shorthand for NewEntity(name, RoleWorkflow, ...).
func NewWorkflow(name string, opts ...EntityOption) *Entity {
	return NewEntity(name, RoleWorkflow, opts...)
}

// NewTask is shorthand for NewEntity(name, RoleTask, ...).
func NewTask(name string, opts ...EntityOption) *Entity {
	return NewEntity(name, RoleTask, opts...)
}

func (e *Entity) Name() string  { return e.name }
func (e *Entity) Role() Role    { return e.role }
func (e *Entity) State() Status { return e.state }

// Observe registers fn to be called after every SetState.
func (e *Entity) Observe(fn func(Change)) {
	if fn == nil {
		return
	}
	e.observers = append(e.observers, fn)
}

// SetState overwrites the state unconditionally and returns the previous one.
// Observers are notified even when the new state equals the old one.
// It never triggers cascades by itself.
func (e *Entity) SetState(s Status) Status {
	old := e.state
	e.state = s
	change := Change{Entity: e, From: old, To: s}
	for _, fn := range e.observers {
		fn(change)
	}
	return old
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(name=%q, state=%q)", e.role, e.name, string(e.state))
}
