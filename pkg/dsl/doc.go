/*
Package dsl provides a Go DSL for programmatically constructing cascade flows.

Entities and rules are declared by name with a fluent builder, which keeps flow definitions
readable and lets Build report every wiring mistake at once instead of failing on the first.

Example usage:

	b := dsl.New().
		Workflow("Flight Booking").
		Task("Search Flights").
		Task("Select Flight")

	b.When("Flight Booking").Is(domain.StatusInProgress).Set("Search Flights", domain.StatusInProgress)
	b.When("Search Flights").Is(domain.StatusCompleted).Set("Select Flight", domain.StatusInProgress)
	b.WhenAll("Search Flights", "Select Flight").Are(domain.StatusCompleted).
		Set("Flight Booking", domain.StatusCompleted)

	eng, err := b.Build(cascade.WithLogger(logger))
*/
package dsl
