package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/cascade/pkg/domain"
	"github.com/google/uuid"
)

// DefaultMaxTransitions bounds a single cascade unless overridden.
const DefaultMaxTransitions = 10000

// Engine owns the entity registry and the rule set, and propagates state changes.
//
// Engine is not safe for concurrent use. Callers that share one engine across
// goroutines must serialize every call.
type Engine struct {
	entities []*domain.Entity
	byName   map[string]*domain.Entity
	rules    []domain.Rule

	hooks          domain.LifecycleHooks
	logger         *slog.Logger
	maxTransitions int
	newID          func() string
	now            func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMaxTransitions caps the number of transitions one Apply call may perform.
// A value <= 0 removes the cap, restoring unbounded propagation.
func WithMaxTransitions(n int) EngineOption {
	return func(e *Engine) {
		e.maxTransitions = n
	}
}

// WithIDGenerator overrides how cascade IDs are produced.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewEngine creates an empty engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		byName:         make(map[string]*domain.Entity),
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxTransitions: DefaultMaxTransitions,
		newID:          uuid.NewString,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterEntity appends entity to the registry.
func (e *Engine) RegisterEntity(entity *domain.Entity) error {
	if entity == nil {
		return domain.ErrNilEntity
	}
	if _, exists := e.byName[entity.Name()]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateEntity, entity.Name())
	}
	e.entities = append(e.entities, entity)
	e.byName[entity.Name()] = entity
	return nil
}

// RegisterRule appends rule to the rule list. Registration order is evaluation order.
func (e *Engine) RegisterRule(rule domain.Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: nil rule", domain.ErrInvalidRule)
	}
	if err := rule.Validate(); err != nil {
		return err
	}
	e.rules = append(e.rules, rule)
	return nil
}

// Entity looks up a registered entity by name.
func (e *Engine) Entity(name string) (*domain.Entity, bool) {
	ent, ok := e.byName[name]
	return ent, ok
}

// Entities returns the registered entities in registration order.
func (e *Engine) Entities() []*domain.Entity {
	return append([]*domain.Entity(nil), e.entities...)
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []domain.Rule {
	return append([]domain.Rule(nil), e.rules...)
}

// Snapshot captures the aggregate state of every registered entity.
func (e *Engine) Snapshot() domain.Snapshot {
	snap := make(domain.Snapshot, len(e.entities))
	for i, ent := range e.entities {
		snap[i] = domain.EntityState{Name: ent.Name(), Role: ent.Role(), State: ent.State()}
	}
	return snap
}
