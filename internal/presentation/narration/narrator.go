package narration

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/cascade/internal/presentation/tui"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/scenario"
	"github.com/muesli/termenv"
)

// Narrator prints a running commentary of cascades to a writer.
// It is driven by engine lifecycle hooks and scenario step hooks.
type Narrator struct {
	out        io.Writer
	profile    termenv.Profile
	render     func(string) (string, error)
	traceRules bool
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithProfile sets the colour profile. termenv.Ascii disables colour.
func WithProfile(p termenv.Profile) Option {
	return func(n *Narrator) {
		n.profile = p
	}
}

// WithMarkdown renders the final summary through render instead of printing raw markdown.
func WithMarkdown(render func(string) (string, error)) Option {
	return func(n *Narrator) {
		n.render = render
	}
}

// WithRuleTrace also prints every rule firing.
func WithRuleTrace(enabled bool) Option {
	return func(n *Narrator) {
		n.traceRules = enabled
	}
}

// New creates a narrator writing to w. Colour is off unless WithProfile is given.
func New(w io.Writer, opts ...Option) *Narrator {
	n := &Narrator{out: w, profile: termenv.Ascii}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Hooks returns the lifecycle hooks that narrate state changes.
func (n *Narrator) Hooks() domain.LifecycleHooks {
	hooks := domain.LifecycleHooks{
		OnTransition: n.transition,
	}
	if n.traceRules {
		hooks.OnRuleFired = n.ruleFired
	}
	return hooks
}

// StepHook adapts the narrator to scenario.WithStepHook.
func (n *Narrator) StepHook() scenario.RunOption {
	return scenario.WithStepHook(n.Step)
}

func (n *Narrator) transition(e *domain.TransitionEvent) {
	fmt.Fprintf(n.out, "%s--> STATE CHANGE: '%s' is moving from '%s' to '%s'\n",
		indent(e.Depth),
		n.profile.String(e.Entity).Bold(),
		n.status(e.From),
		n.status(e.To),
	)
}

func (n *Narrator) ruleFired(e *domain.RuleEvent) {
	fmt.Fprintf(n.out, "%s%s\n", indent(e.Depth), n.profile.String("via "+e.Rule.String()).Faint())
}

// Banner prints the cascade banner.
func (n *Narrator) Banner() {
	tui.PrintBanner(n.out, n.profile)
}

// Simulation prints the framed header for one simulation run.
func (n *Narrator) Simulation(title string) {
	header := "SIMULATION: " + title
	rule := strings.Repeat("=", len(header))
	fmt.Fprintf(n.out, "\n%s\n  %s\n%s\n\n", rule, n.profile.String(header).Bold(), rule)
}

// Created prints the initial state of every entity in snap.
func (n *Narrator) Created(snap domain.Snapshot) {
	for _, es := range snap {
		fmt.Fprintf(n.out, "'%s' created with initial state: %s\n", n.profile.String(es.Name).Bold(), n.status(es.State))
	}
}

// Step prints the header of scenario step index (0-based).
func (n *Narrator) Step(index int, step scenario.Step) {
	note := step.Note
	if note == "" {
		note = fmt.Sprintf("Set '%s' to '%s'.", step.Entity, step.State)
	}
	fmt.Fprintf(n.out, "\n%s %s\n", n.profile.String(fmt.Sprintf("Step %d:", index+1)).Bold(), note)
}

// Error reports a failed run.
func (n *Narrator) Error(err error) {
	fmt.Fprintf(n.out, "%s %v\n", n.profile.String("Error:").Foreground(n.profile.Color("#ef4444")).Bold(), err)
}

// Summary prints the final state of every entity as a table.
func (n *Narrator) Summary(snap domain.Snapshot) error {
	var md strings.Builder
	md.WriteString("| Entity | Role | State |\n")
	md.WriteString("| --- | --- | --- |\n")
	for _, es := range snap {
		fmt.Fprintf(&md, "| %s | %s | %s |\n", es.Name, es.Role, es.State)
	}

	fmt.Fprintf(n.out, "\n%s\n", n.profile.String("--- FINAL STATE ---").Bold())
	if n.render == nil {
		_, err := fmt.Fprint(n.out, md.String())
		return err
	}

	rendered, err := n.render(md.String())
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	_, err = fmt.Fprint(n.out, rendered)
	return err
}

func (n *Narrator) status(s domain.Status) termenv.Style {
	return n.profile.String(s.String()).Foreground(n.profile.Color(statusColor(s)))
}

func statusColor(s domain.Status) string {
	switch s {
	case domain.StatusInProgress:
		return "#facc15"
	case domain.StatusCompleted, domain.StatusSuccessful:
		return "#4ade80"
	case domain.StatusFailed:
		return "#f87171"
	case domain.StatusGuestUser, domain.StatusRegisteredUser:
		return "#60a5fa"
	default:
		return "#9ca3af"
	}
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
