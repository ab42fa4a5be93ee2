package domain

import (
	"fmt"
	"strings"
)

// RuleKind names a rule variant.
type RuleKind string

const (
	KindLink  RuleKind = "link"
	KindMerge RuleKind = "merge"
)

// Rule is a condition-action pair evaluated against the entity that just changed.
//
// The set of variants is closed: *Link and *Merge. Conditions read current state only,
// so a rule may fire again on any later evaluation while its condition holds.
type Rule interface {
	// Fires reports whether the rule triggers given that changed just transitioned.
	Fires(changed *Entity) bool
	Sources() []*Entity
	Target() *Entity
	TargetState() Status
	Kind() RuleKind
	Validate() error
	String() string

	sealed()
}

// Link sets a target to a state when a single source reaches a given state.
type Link struct {
	source      *Entity
	sourceState Status
	target      *Entity
	targetState Status
}

// NewLink creates a single-source rule.
func NewLink(source *Entity, sourceState Status, target *Entity, targetState Status) *Link {
	return &Link{
		source:      source,
		sourceState: sourceState,
		target:      target,
		targetState: targetState,
	}
}

func (l *Link) Fires(changed *Entity) bool {
	return changed != nil && l.source == changed && l.source.State() == l.sourceState
}

func (l *Link) Source() *Entity     { return l.source }
func (l *Link) SourceState() Status { return l.sourceState }
func (l *Link) Sources() []*Entity  { return []*Entity{l.source} }
func (l *Link) Target() *Entity     { return l.target }
func (l *Link) TargetState() Status { return l.targetState }
func (l *Link) Kind() RuleKind      { return KindLink }
func (l *Link) sealed() {}

func (l *Link) Validate() error {
	if l.source == nil {
		return fmt.Errorf("%w: link has no source", ErrInvalidRule)
	}
	if l.target == nil {
		return fmt.Errorf("%w: link from %q has no target", ErrInvalidRule, l.source.Name())
	}
	return nil
}

func (l *Link) String() string {
	return fmt.Sprintf("Link(When '%s' is '%s', set '%s' to '%s')",
		nameOf(l.source), l.sourceState, nameOf(l.target), l.targetState)
}

// Merge sets a target to a state once every source holds the required state.
type Merge struct {
	sources       []*Entity
	requiredState Status
	target        *Entity
	targetState   Status
}

// NewMerge creates a multi-source (merge point) rule. The sources slice is copied.
func NewMerge(sources []*Entity, requiredState Status, target *Entity, targetState Status) *Merge {
	return &Merge{
		sources:       append([]*Entity(nil), sources...),
		requiredState: requiredState,
		target:        target,
		targetState:   targetState,
	}
}

func (m *Merge) Fires(changed *Entity) bool {
	if changed == nil || !m.has(changed) {
		return false
	}
	return m.Satisfied()
}

// Satisfied reports whether all sources currently hold the required state.
func (m *Merge) Satisfied() bool {
	for _, s := range m.sources {
		if s.State() != m.requiredState {
			return false
		}
	}
	return true
}

func (m *Merge) has(e *Entity) bool {
	for _, s := range m.sources {
		if s == e {
			return true
		}
	}
	return false
}

func (m *Merge) RequiredState() Status { return m.requiredState }
func (m *Merge) Sources() []*Entity    { return append([]*Entity(nil), m.sources...) }
func (m *Merge) Target() *Entity       { return m.target }
func (m *Merge) TargetState() Status   { return m.targetState }
func (m *Merge) Kind() RuleKind        { return KindMerge }
func (m *Merge) sealed() {}

func (m *Merge) Validate() error {
	if len(m.sources) == 0 {
		return fmt.Errorf("%w: merge has no sources", ErrInvalidRule)
	}
	for i, s := range m.sources {
		if s == nil {
			return fmt.Errorf("%w: merge source %d is nil", ErrInvalidRule, i)
		}
	}
	if m.target == nil {
		return fmt.Errorf("%w: merge has no target", ErrInvalidRule)
	}
	return nil
}

func (m *Merge) String() string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = "'" + nameOf(s) + "'"
	}
	return fmt.Sprintf("Merge(When [%s] are all '%s', set '%s' to '%s')",
		strings.Join(names, ", "), m.requiredState, nameOf(m.target), m.targetState)
}

func nameOf(e *Entity) string {
	if e == nil {
		return "<nil>"
	}
	return e.Name()
}
