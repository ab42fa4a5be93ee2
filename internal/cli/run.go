package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/presentation/narration"
	"github.com/aretw0/cascade/internal/presentation/tui"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/scenario"
	"github.com/muesli/termenv"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	ScenarioPath   string
	User           string
	Payment        string
	All            bool
	LogLevel       string
	MaxTransitions int
	TraceRules     bool
	Quiet          bool
	RedisAddr      string
	RedisStream    string

	// Profile selects the colour output; termenv.Ascii disables colour and markdown styling.
	Profile termenv.Profile
	Stdout  io.Writer
	Stderr  io.Writer
}

// Execute handles the 'run' command logic: it simulates every selected scenario
// and narrates each cascade.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	logger, err := logging.FromFlag(opts.LogLevel, opts.Stderr)
	if err != nil {
		return err
	}

	scenarios, err := loadScenarios(opts)
	if err != nil {
		return err
	}

	out := opts.Stdout
	if opts.Quiet {
		out = io.Discard
	}
	narratorOpts := []narration.Option{
		narration.WithProfile(opts.Profile),
		narration.WithRuleTrace(opts.TraceRules),
	}
	if opts.Profile != termenv.Ascii {
		render, err := tui.NewRenderer("", 100)
		if err != nil {
			logger.Warn("markdown renderer unavailable", "err", err)
		} else {
			narratorOpts = append(narratorOpts, narration.WithMarkdown(render))
		}
	}
	narrator := narration.New(out, narratorOpts...)

	publisher, closePublisher := createPublisher(opts, logger)
	defer closePublisher()

	engineOpts := createEngineOptions(opts.MaxTransitions, logger, narrator, publisher)

	narrator.Banner()
	for _, sc := range scenarios {
		narrator.Simulation(sc.Description)
		eng, err := sc.Build(engineOpts...)
		if err != nil {
			narrator.Error(err)
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		narrator.Created(eng.Snapshot())

		snap, err := scenario.Run(ctx, eng, sc.Steps, narrator.StepHook())
		if err != nil {
			if err = handleExecutionError(err); err != nil {
				narrator.Error(err)
				return fmt.Errorf("scenario %s: %w", sc.Name, err)
			}
			printSystemMessage(opts.Stdout, "Interrupted.")
			return nil
		}
		if err := narrator.Summary(snap); err != nil {
			return err
		}
		for _, e := range eng.Entities() {
			if e.Role() == domain.RoleWorkflow {
				fmt.Fprintf(out, "Final Workflow State: %s\n", e.State())
			}
		}
	}
	return nil
}

func loadScenarios(opts RunOptions) ([]*scenario.Scenario, error) {
	if opts.ScenarioPath != "" {
		sc, err := scenario.Load(opts.ScenarioPath)
		if err != nil {
			return nil, err
		}
		if sc.Description == "" {
			sc.Description = sc.Name
		}
		return []*scenario.Scenario{sc}, nil
	}

	if opts.All {
		var out []*scenario.Scenario
		for _, v := range scenario.Variants() {
			out = append(out, scenario.Booking(v.User, v.Payment))
		}
		return out, nil
	}

	user, err := domain.ParseStatus(opts.User)
	if err != nil {
		return nil, fmt.Errorf("--user: %w", err)
	}
	payment, err := domain.ParseStatus(opts.Payment)
	if err != nil {
		return nil, fmt.Errorf("--payment: %w", err)
	}
	return []*scenario.Scenario{scenario.Booking(user, payment)}, nil
}

// LoadEngine builds an engine for the scenario file at path, or the default booking flow when path is empty.
func LoadEngine(path string, opts ...cascade.Option) (*cascade.Engine, error) {
	sc := scenario.Booking(domain.StatusGuestUser, domain.StatusSuccessful)
	if path != "" {
		var err error
		if sc, err = scenario.Load(path); err != nil {
			return nil, err
		}
	}
	return sc.Build(opts...)
}
