/*
Package scenario loads cascade flows from YAML and drives them with scripted steps.

A scenario file declares entities, rules and an optional list of steps:

	name: booking
	entities:
	  - {name: Flight Booking, role: workflow}
	  - {name: Search Flights}
	rules:
	  - {when: Flight Booking, is: IN_PROGRESS, set: Search Flights, to: IN_PROGRESS}
	  - when_all: [Enter Passenger Details, Add Extras]
	    are: COMPLETED
	    set: Process Payment
	    to: IN_PROGRESS
	steps:
	  - {entity: Flight Booking, state: IN_PROGRESS, note: User starts the booking process.}

Statuses accept tokens (COMPLETED) or labels (Completed). The package also ships the
flight booking flow (Booking) used by the CLI and the end-to-end tests.
*/
package scenario
