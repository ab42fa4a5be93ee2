/*
Package cascade is a deterministic rule-propagation engine for modelling business processes
as stateful entities connected by declarative rules.

When an entity enters a state, every rule whose trigger now holds sets its target entity to a
new state, and the change propagates again from that target. The walk is depth-first and
strictly ordered by rule registration, so a fixed rule set and a fixed input sequence always
produce the same aggregate state.

# Concept

An Engine owns a registry of entities and an ordered list of rules. There are two kinds of rule:

  - Link: when one source reaches a state, set the target to a state.
  - Merge: when every source holds the same state, set the target to a state.

Apply is the only mutation entry point. It overwrites the entity state (even when unchanged),
then evaluates the rules until a fixed point is reached. Rule conditions read current state,
not history, so a rule fires again whenever it is re-evaluated while its condition holds.

Rule graphs must be acyclic or convergent. A divergent cascade stops with
domain.ErrCascadeLimit after DefaultMaxTransitions transitions (see WithMaxTransitions).
Mutations already applied are never rolled back.

The engine is single-threaded and does no locking. Hosts that share one engine between
goroutines must serialize calls (see pkg/adapters/http).

# Usage

	eng := cascade.New(cascade.WithLogger(logger))

	search := domain.NewTask("Search Flights")
	selectFlight := domain.NewTask("Select Flight")
	_ = eng.RegisterEntity(search)
	_ = eng.RegisterEntity(selectFlight)
	_ = eng.RegisterRule(domain.NewLink(search, domain.StatusCompleted, selectFlight, domain.StatusInProgress))

	if err := eng.Apply(search, domain.StatusCompleted); err != nil {
		log.Fatal(err)
	}
	fmt.Println(selectFlight.State()) // In Progress

The dsl package offers a fluent builder and the scenario package loads flows from YAML.
*/
package cascade
