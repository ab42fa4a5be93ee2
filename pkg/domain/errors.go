package domain

import "errors"

// ErrNilEntity is returned when a state change or registration is attempted without an entity.
var ErrNilEntity = errors.New("a valid entity was not provided")

// ErrDuplicateEntity is returned when two entities with the same name are registered on one engine.
var ErrDuplicateEntity = errors.New("duplicate entity name")

// ErrUnknownEntity is returned when a name does not resolve to a registered entity.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrUnknownStatus is returned when a string cannot be parsed into a Status.
var ErrUnknownStatus = errors.New("unknown status")

// ErrInvalidRule is returned when a rule is missing its source(s) or target.
var ErrInvalidRule = errors.New("invalid rule")

// ErrCascadeLimit is returned when a cascade exceeds the configured transition cap.
// Mutations applied before the limit was hit are kept.
var ErrCascadeLimit = errors.New("cascade transition limit exceeded")

// ErrCycle is returned by static validation when the rule graph contains a cycle.
var ErrCycle = errors.New("rule graph contains a cycle")
