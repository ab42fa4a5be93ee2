package runtime_test

import (
	"errors"
	"testing"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, eng *runtime.Engine)
		wantCycle  []string
		wantStates []domain.Status
	}{
		{
			name: "Acyclic chain with merge",
			setup: func(t *testing.T, eng *runtime.Engine) {
				a, b, c := domain.NewTask("a"), domain.NewTask("b"), domain.NewTask("c")
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusCompleted, b, domain.StatusInProgress)))
				require.NoError(t, eng.RegisterRule(domain.NewMerge([]*domain.Entity{a, b}, domain.StatusCompleted, c, domain.StatusInProgress)))
			},
		},
		{
			name: "Workflow reset by its last task",
			setup: func(t *testing.T, eng *runtime.Engine) {
				wf, a, b := domain.NewWorkflow("wf"), domain.NewTask("a"), domain.NewTask("b")
				require.NoError(t, eng.RegisterRule(domain.NewLink(wf, domain.StatusInProgress, a, domain.StatusInProgress)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusCompleted, b, domain.StatusInProgress)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(b, domain.StatusCompleted, wf, domain.StatusCompleted)))
			},
		},
		{
			name: "Entity loop through states nothing listens for",
			setup: func(t *testing.T, eng *runtime.Engine) {
				a, b := domain.NewTask("a"), domain.NewTask("b")
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusCompleted, b, domain.StatusCompleted)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(b, domain.StatusCompleted, a, domain.StatusInProgress)))
			},
		},
		{
			name: "Two node cycle",
			setup: func(t *testing.T, eng *runtime.Engine) {
				a, b := domain.NewTask("a"), domain.NewTask("b")
				require.NoError(t, eng.RegisterEntity(a))
				require.NoError(t, eng.RegisterEntity(b))
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusInProgress, b, domain.StatusInProgress)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(b, domain.StatusInProgress, a, domain.StatusInProgress)))
			},
			wantCycle:  []string{"a", "b", "a"},
			wantStates: []domain.Status{domain.StatusInProgress, domain.StatusInProgress, domain.StatusInProgress},
		},
		{
			name: "Self loop",
			setup: func(t *testing.T, eng *runtime.Engine) {
				a := domain.NewTask("a")
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusFailed, a, domain.StatusInProgress)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(a, domain.StatusInProgress, a, domain.StatusInProgress)))
			},
			wantCycle:  []string{"a", "a"},
			wantStates: []domain.Status{domain.StatusInProgress, domain.StatusInProgress},
		},
		{
			name: "Cycle through merge source",
			setup: func(t *testing.T, eng *runtime.Engine) {
				a, b, c := domain.NewTask("a"), domain.NewTask("b"), domain.NewTask("c")
				require.NoError(t, eng.RegisterEntity(a))
				require.NoError(t, eng.RegisterRule(domain.NewMerge([]*domain.Entity{a, b}, domain.StatusCompleted, c, domain.StatusCompleted)))
				require.NoError(t, eng.RegisterRule(domain.NewLink(c, domain.StatusCompleted, a, domain.StatusCompleted)))
			},
			wantCycle:  []string{"a", "c", "a"},
			wantStates: []domain.Status{domain.StatusCompleted, domain.StatusCompleted, domain.StatusCompleted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := runtime.NewEngine()
			tt.setup(t, eng)

			err := eng.Validate()
			if tt.wantCycle == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCycle)
			var cycleErr *runtime.CycleError
			require.True(t, errors.As(err, &cycleErr))
			assert.Equal(t, tt.wantCycle, cycleErr.Path)
			assert.Equal(t, tt.wantStates, cycleErr.States)
		})
	}
}
