package scenario

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/dsl"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned when a scenario document cannot be decoded or is incomplete.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a declarative flow definition: entities, rules and a scripted input sequence.
type Scenario struct {
	Name        string       `mapstructure:"name" yaml:"name"`
	Description string       `mapstructure:"description" yaml:"description,omitempty"`
	Entities    []EntitySpec `mapstructure:"entities" yaml:"entities"`
	Rules       []RuleSpec   `mapstructure:"rules" yaml:"rules"`
	Steps       []Step       `mapstructure:"steps" yaml:"steps,omitempty"`
}

// EntitySpec declares one entity. Role defaults to task, Initial to NOT_STARTED.
type EntitySpec struct {
	Name    string        `mapstructure:"name" yaml:"name"`
	Role    domain.Role   `mapstructure:"role" yaml:"role,omitempty"`
	Initial domain.Status `mapstructure:"initial" yaml:"initial,omitempty"`
}

// RuleSpec declares a rule. Exactly one of When (link) or WhenAll (merge) is set;
// the trigger state goes in Is (or its alias Are).
type RuleSpec struct {
	When    string        `mapstructure:"when" yaml:"when,omitempty"`
	WhenAll []string      `mapstructure:"when_all" yaml:"when_all,omitempty"`
	Is      domain.Status `mapstructure:"is" yaml:"is,omitempty"`
	Are     domain.Status `mapstructure:"are" yaml:"are,omitempty"`
	Set     string        `mapstructure:"set" yaml:"set"`
	To      domain.Status `mapstructure:"to" yaml:"to"`
}

// Step is one externally requested state change.
type Step struct {
	Entity string        `mapstructure:"entity" yaml:"entity"`
	State  domain.Status `mapstructure:"state" yaml:"state"`
	Note   string        `mapstructure:"note" yaml:"note,omitempty"`
}

// Load reads and parses a YAML scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a YAML scenario document. Status fields accept tokens or labels.
func Parse(data []byte) (*Scenario, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidScenario)
	}

	var sc Scenario
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.ComposeDecodeHookFunc(statusHook, roleHook),
		ErrorUnused: true,
		Result:      &sc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Build wires the scenario's entities and rules on a new engine.
func (s *Scenario) Build(opts ...cascade.Option) (*cascade.Engine, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	b := dsl.New()
	for _, es := range s.Entities {
		role := es.Role
		if role == "" {
			role = domain.RoleTask
		}
		var entOpts []domain.EntityOption
		if es.Initial != "" {
			entOpts = append(entOpts, domain.WithInitialState(es.Initial))
		}
		b.Entity(es.Name, role, entOpts...)
	}

	for _, rs := range s.Rules {
		state := rs.Is
		if state == "" {
			state = rs.Are
		}
		if len(rs.WhenAll) > 0 {
			b.WhenAll(rs.WhenAll...).Are(state).Set(rs.Set, rs.To)
		} else {
			b.When(rs.When).Is(state).Set(rs.Set, rs.To)
		}
	}

	eng, err := b.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return eng, nil
}

// Marshal renders the scenario back to YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

func (s *Scenario) validate() error {
	var errs []error
	if len(s.Entities) == 0 {
		errs = append(errs, errors.New("no entities declared"))
	}
	for i, es := range s.Entities {
		if es.Name == "" {
			errs = append(errs, fmt.Errorf("entity %d: missing name", i))
		}
	}
	for i, rs := range s.Rules {
		switch {
		case rs.When == "" && len(rs.WhenAll) == 0:
			errs = append(errs, fmt.Errorf("rule %d: one of 'when' or 'when_all' is required", i))
		case rs.When != "" && len(rs.WhenAll) > 0:
			errs = append(errs, fmt.Errorf("rule %d: 'when' and 'when_all' are exclusive", i))
		}
		if rs.Is == "" && rs.Are == "" {
			errs = append(errs, fmt.Errorf("rule %d: trigger state ('is' or 'are') is required", i))
		}
		if rs.Is != "" && rs.Are != "" && rs.Is != rs.Are {
			errs = append(errs, fmt.Errorf("rule %d: 'is' and 'are' disagree", i))
		}
		if rs.Set == "" || rs.To == "" {
			errs = append(errs, fmt.Errorf("rule %d: 'set' and 'to' are required", i))
		}
	}
	for i, st := range s.Steps {
		if st.Entity == "" || st.State == "" {
			errs = append(errs, fmt.Errorf("step %d: 'entity' and 'state' are required", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

var (
	statusType = reflect.TypeOf(domain.Status(""))
	roleType   = reflect.TypeOf(domain.Role(""))
)

func statusHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != statusType || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseStatus(data.(string))
}

func roleHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != roleType || from.Kind() != reflect.String {
		return data, nil
	}
	switch r := domain.Role(data.(string)); r {
	case "", domain.RoleWorkflow, domain.RoleTask:
		return r, nil
	default:
		return nil, fmt.Errorf("unknown role %q", data)
	}
}
