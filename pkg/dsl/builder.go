package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
)

// Builder manages the flow construction.
// Entities and rules are registered in the order they are declared.
type Builder struct {
	entities []*domain.Entity
	byName   map[string]*domain.Entity
	rules    []ruleDecl
	errs     []error
}

type ruleDecl struct {
	sources     []string
	state       domain.Status
	target      string
	targetState domain.Status
	merge       bool
}

// New creates a new flow builder.
func New() *Builder {
	return &Builder{
		byName: make(map[string]*domain.Entity),
	}
}

// Entity declares an entity with an explicit role.
// Declaring the same name twice is reported by Build.
func (b *Builder) Entity(name string, role domain.Role, opts ...domain.EntityOption) *Builder {
	if _, ok := b.byName[name]; ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", domain.ErrDuplicateEntity, name))
		return b
	}
	ent := domain.NewEntity(name, role, opts...)
	b.entities = append(b.entities, ent)
	b.byName[name] = ent
	return b
}

// Workflow declares the entity representing the overall process.
func (b *Builder) Workflow(name string, opts ...domain.EntityOption) *Builder {
	return b.Entity(name, domain.RoleWorkflow, opts...)
}

// Task declares a step of the process.
func (b *Builder) Task(name string, opts ...domain.EntityOption) *Builder {
	return b.Entity(name, domain.RoleTask, opts...)
}

// When starts a single-source rule triggered by the named entity.
func (b *Builder) When(source string) *Trigger {
	return &Trigger{builder: b, sources: []string{source}}
}

// WhenAll starts a merge rule over the named entities.
func (b *Builder) WhenAll(sources ...string) *Trigger {
	return &Trigger{builder: b, sources: sources, merge: true}
}

// Build registers everything on a new engine configured with opts.
func (b *Builder) Build(opts ...cascade.Option) (*cascade.Engine, error) {
	errs := append([]error(nil), b.errs...)

	eng := cascade.New(opts...)
	for _, ent := range b.entities {
		if err := eng.RegisterEntity(ent); err != nil {
			errs = append(errs, err)
		}
	}

	for i, decl := range b.rules {
		rule, err := b.resolve(decl)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		if err := eng.RegisterRule(rule); err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return eng, nil
}

func (b *Builder) resolve(decl ruleDecl) (domain.Rule, error) {
	target, err := b.lookup(decl.target)
	if err != nil {
		return nil, err
	}

	sources := make([]*domain.Entity, 0, len(decl.sources))
	for _, name := range decl.sources {
		src, err := b.lookup(name)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if decl.merge {
		return domain.NewMerge(sources, decl.state, target, decl.targetState), nil
	}
	return domain.NewLink(sources[0], decl.state, target, decl.targetState), nil
}

func (b *Builder) lookup(name string) (*domain.Entity, error) {
	ent, ok := b.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEntity, name)
	}
	return ent, nil
}
