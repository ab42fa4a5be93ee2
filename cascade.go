package cascade

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
)

// Version is the release of the cascade module.
const Version = "0.3.0"

// DefaultMaxTransitions is the transition cap applied to one Apply call unless overridden.
const DefaultMaxTransitions = runtime.DefaultMaxTransitions

// Engine is the high-level entry point for the cascade library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine

	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	maxTransitions int
	idGenerator    func() string
	clock          func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxTransitions caps the transitions of a single cascade. n <= 0 disables the cap.
func WithMaxTransitions(n int) Option {
	return func(e *Engine) {
		e.maxTransitions = n
	}
}

// WithIDGenerator overrides the cascade ID generator (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		e.idGenerator = fn
	}
}

// WithClock overrides the time source for event timestamps.
func WithClock(fn func() time.Time) Option {
	return func(e *Engine) {
		e.clock = fn
	}
}

// New initializes an empty engine. Entities and rules are registered afterwards,
// usually through the dsl or scenario packages.
func New(opts ...Option) *Engine {
	eng := &Engine{maxTransitions: DefaultMaxTransitions}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithMaxTransitions(eng.maxTransitions),
		runtime.WithIDGenerator(eng.idGenerator),
		runtime.WithClock(eng.clock),
	)
	return eng
}

// RegisterEntity adds an entity to the registry. Entity names must be unique per engine.
func (e *Engine) RegisterEntity(entity *domain.Entity) error {
	return e.runtime.RegisterEntity(entity)
}

// RegisterRule appends a rule. Registration order decides which rule fires first.
func (e *Engine) RegisterRule(rule domain.Rule) error {
	return e.runtime.RegisterRule(rule)
}

// Apply sets entity to status and runs the cascade to a fixed point.
// It is the only way entity state should be mutated.
func (e *Engine) Apply(entity *domain.Entity, status domain.Status) error {
	return e.runtime.Apply(entity, status)
}

// ApplyByName resolves name in the registry and calls Apply.
func (e *Engine) ApplyByName(name string, status domain.Status) error {
	ent, ok := e.runtime.Entity(name)
	if !ok {
		return unknownEntity(name)
	}
	return e.runtime.Apply(ent, status)
}

// Entity looks up a registered entity by name.
func (e *Engine) Entity(name string) (*domain.Entity, bool) {
	return e.runtime.Entity(name)
}

// Entities returns registered entities in registration order.
func (e *Engine) Entities() []*domain.Entity {
	return e.runtime.Entities()
}

// Rules returns registered rules in registration order.
func (e *Engine) Rules() []domain.Rule {
	return e.runtime.Rules()
}

// Snapshot returns the current state of every registered entity.
func (e *Engine) Snapshot() domain.Snapshot {
	return e.runtime.Snapshot()
}

// Validate reports a cycle in the rule graph, if any. Cycles are allowed at runtime
// when they converge, so this is advisory.
func (e *Engine) Validate() error {
	return e.runtime.Validate()
}
