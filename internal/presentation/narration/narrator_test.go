package narration_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/narration"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/scenario"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulate(t *testing.T, n *narration.Narrator, user, payment domain.Status) domain.Snapshot {
	t.Helper()
	sc := scenario.Booking(user, payment)
	_, snap, err := sc.Simulate(context.Background(),
		[]cascade.Option{cascade.WithLifecycleHooks(n.Hooks())},
		n.StepHook(),
	)
	require.NoError(t, err)
	return snap
}

func TestNarrator_BookingTranscript(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf)

	simulate(t, n, domain.StatusGuestUser, domain.StatusSuccessful)
	out := buf.String()

	assert.Contains(t, out, "\nStep 1: User starts the booking process.\n")
	assert.Contains(t, out, "--> STATE CHANGE: 'Flight Booking' is moving from 'Not Started' to 'In Progress'\n")
	assert.Contains(t, out, "  --> STATE CHANGE: 'Search Flights' is moving from 'Not Started' to 'In Progress'\n")
	assert.Contains(t, out, "Step 4: User chooses to continue as a Guest User.\n")
	assert.Contains(t, out, "  --> STATE CHANGE: 'Process Payment' is moving from 'Not Started' to 'In Progress'\n")
	assert.Contains(t, out, "    --> STATE CHANGE: 'Flight Booking' is moving from 'In Progress' to 'Completed'\n")
	assert.NotContains(t, out, "via ")
	assert.NotContains(t, out, "\x1b[")
}

func TestNarrator_RuleTrace(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf, narration.WithRuleTrace(true))

	simulate(t, n, domain.StatusRegisteredUser, domain.StatusFailed)
	out := buf.String()

	assert.Contains(t, out, "  via Link(When 'Flight Booking' is 'In Progress', set 'Search Flights' to 'In Progress')\n")
	assert.Contains(t, out, "via Merge(When ['Enter Passenger Details', 'Add Extras'] are all 'Completed', set 'Process Payment' to 'In Progress')")
}

func TestNarrator_StepWithoutNote(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf)
	n.Step(2, scenario.Step{Entity: "Pack", State: domain.StatusCompleted})
	assert.Equal(t, "\nStep 3: Set 'Pack' to 'Completed'.\n", buf.String())
}

func TestNarrator_Created(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf)
	n.Created(domain.Snapshot{
		{Name: "Order", Role: domain.RoleWorkflow, State: domain.StatusNotStarted},
		{Name: "Pack", Role: domain.RoleTask, State: domain.StatusInProgress},
	})

	want := "'Order' created with initial state: Not Started\n" +
		"'Pack' created with initial state: In Progress\n"
	assert.Equal(t, want, buf.String())
}

func TestNarrator_Simulation(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf)
	n.Simulation("Successful Booking as Guest User")

	want := "\n" +
		"============================================\n" +
		"  SIMULATION: Successful Booking as Guest User\n" +
		"============================================\n\n"
	assert.Equal(t, want, buf.String())
}

func TestNarrator_Summary(t *testing.T) {
	snap := domain.Snapshot{
		{Name: "Flight Booking", Role: domain.RoleWorkflow, State: domain.StatusCompleted},
		{Name: "Add Extras", Role: domain.RoleTask, State: domain.StatusCompleted},
	}

	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, narration.New(&buf).Summary(snap))
		assert.Equal(t, "\n--- FINAL STATE ---\n"+
			"| Entity | Role | State |\n"+
			"| --- | --- | --- |\n"+
			"| Flight Booking | workflow | Completed |\n"+
			"| Add Extras | task | Completed |\n", buf.String())
	})

	t.Run("rendered", func(t *testing.T) {
		var got string
		var buf bytes.Buffer
		n := narration.New(&buf, narration.WithMarkdown(func(md string) (string, error) {
			got = md
			return "RENDERED\n", nil
		}))
		require.NoError(t, n.Summary(snap))
		assert.Contains(t, got, "| Flight Booking | workflow | Completed |")
		assert.Equal(t, "\n--- FINAL STATE ---\nRENDERED\n", buf.String())
	})

	t.Run("render error", func(t *testing.T) {
		n := narration.New(&bytes.Buffer{}, narration.WithMarkdown(func(string) (string, error) {
			return "", errors.New("boom")
		}))
		assert.ErrorContains(t, n.Summary(snap), "boom")
	})
}

func TestNarrator_Colour(t *testing.T) {
	var buf bytes.Buffer
	n := narration.New(&buf, narration.WithProfile(termenv.ANSI256))
	n.Error(errors.New("payment gateway down"))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "payment gateway down")
}
