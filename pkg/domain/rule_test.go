package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntity_SetState(t *testing.T) {
	e := NewTask("Search Flights")
	assert.Equal(t, StatusNotStarted, e.State())
	assert.Equal(t, RoleTask, e.Role())

	var got []Change
	e.Observe(func(c Change) { got = append(got, c) })
	e.Observe(nil)

	old := e.SetState(StatusInProgress)
	assert.Equal(t, StatusNotStarted, old)

	// Same-state overwrite is still recorded.
	e.SetState(StatusInProgress)

	assert.Equal(t, []Change{
		{Entity: e, From: StatusNotStarted, To: StatusInProgress},
		{Entity: e, From: StatusInProgress, To: StatusInProgress},
	}, got)
}

func TestEntity_InitialState(t *testing.T) {
	wf := NewWorkflow("Flight Booking", WithInitialState(StatusInProgress))
	assert.Equal(t, StatusInProgress, wf.State())
	assert.Equal(t, RoleWorkflow, wf.Role())
	assert.Equal(t, `workflow(name="Flight Booking", state="IN_PROGRESS")`, wf.String())
}

func TestLink_Fires(t *testing.T) {
	a, b, d := NewTask("A"), NewTask("B"), NewTask("D")
	link := NewLink(a, StatusCompleted, b, StatusInProgress)

	assert.False(t, link.Fires(a), "source not yet in trigger state")
	a.SetState(StatusCompleted)
	assert.True(t, link.Fires(a))

	d.SetState(StatusCompleted)
	assert.False(t, link.Fires(d), "unrelated entity in the same state")
	assert.False(t, link.Fires(nil))

	assert.Equal(t, KindLink, link.Kind())
	assert.Equal(t, []*Entity{a}, link.Sources())
	assert.Equal(t, "Link(When 'A' is 'Completed', set 'B' to 'In Progress')", link.String())
}

func TestMerge_Fires(t *testing.T) {
	a, b, c, d := NewTask("A"), NewTask("B"), NewTask("C"), NewTask("D")
	merge := NewMerge([]*Entity{a, b}, StatusCompleted, c, StatusInProgress)

	a.SetState(StatusCompleted)
	assert.False(t, merge.Fires(a))

	b.SetState(StatusCompleted)
	assert.True(t, merge.Fires(a))
	assert.True(t, merge.Fires(b))
	assert.False(t, merge.Fires(d), "non-member never triggers even when satisfied")
	assert.True(t, merge.Satisfied())

	assert.Equal(t, KindMerge, merge.Kind())
	assert.Equal(t, "Merge(When ['A', 'B'] are all 'Completed', set 'C' to 'In Progress')", merge.String())
}

func TestMerge_SourcesAreCopied(t *testing.T) {
	a, b, c := NewTask("A"), NewTask("B"), NewTask("C")
	sources := []*Entity{a, b}
	merge := NewMerge(sources, StatusCompleted, c, StatusInProgress)

	sources[1] = c
	assert.Equal(t, []*Entity{a, b}, merge.Sources())

	got := merge.Sources()
	got[0] = c
	assert.Equal(t, []*Entity{a, b}, merge.Sources())
}

func TestRule_Validate(t *testing.T) {
	a := NewTask("A")
	tests := []struct {
		name string
		rule Rule
		ok   bool
	}{
		{"Valid link", NewLink(a, StatusCompleted, a, StatusFailed), true},
		{"Link without source", NewLink(nil, StatusCompleted, a, StatusFailed), false},
		{"Link without target", NewLink(a, StatusCompleted, nil, StatusFailed), false},
		{"Valid merge", NewMerge([]*Entity{a}, StatusCompleted, a, StatusFailed), true},
		{"Merge without sources", NewMerge(nil, StatusCompleted, a, StatusFailed), false},
		{"Merge with nil source", NewMerge([]*Entity{a, nil}, StatusCompleted, a, StatusFailed), false},
		{"Merge without target", NewMerge([]*Entity{a}, StatusCompleted, nil, StatusFailed), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidRule)
			}
		})
	}
}

func TestSnapshot_Get(t *testing.T) {
	snap := Snapshot{
		{Name: "A", Role: RoleTask, State: StatusCompleted},
	}
	got, ok := snap.Get("A")
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, got)

	_, ok = snap.Get("B")
	assert.False(t, ok)
}
