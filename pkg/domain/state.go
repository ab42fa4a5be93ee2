package domain

import (
	"fmt"
	"strings"
)

// Status is a symbolic state tag shared by every entity.
// Tags compare by equality only; no ordering is defined between them.
type Status string

const (
	// Lifecycle
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"

	// Outcome
	StatusSuccessful Status = "SUCCESSFUL"
	StatusFailed     Status = "FAILED"

	// User category
	StatusGuestUser      Status = "GUEST_USER"
	StatusRegisteredUser Status = "REGISTERED_USER"
)

// Category groups statuses for display purposes.
// Nothing in the engine validates categories: any status may be assigned to any entity.
type Category string

const (
	CategoryLifecycle Category = "lifecycle"
	CategoryOutcome   Category = "outcome"
	CategoryUser      Category = "user"
	CategoryUnknown   Category = "unknown"
)

type statusInfo struct {
	label    string
	category Category
}

var statusTable = map[Status]statusInfo{
	StatusNotStarted:     {"Not Started", CategoryLifecycle},
	StatusInProgress:     {"In Progress", CategoryLifecycle},
	StatusCompleted:      {"Completed", CategoryLifecycle},
	StatusSuccessful:     {"Successful", CategoryOutcome},
	StatusFailed:         {"Failed", CategoryOutcome},
	StatusGuestUser:      {"Guest User", CategoryUser},
	StatusRegisteredUser: {"Registered User", CategoryUser},
}

var statusOrder = []Status{
	StatusNotStarted,
	StatusInProgress,
	StatusCompleted,
	StatusSuccessful,
	StatusFailed,
	StatusGuestUser,
	StatusRegisteredUser,
}

// Statuses returns the closed status set in declaration order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// String returns the human readable label, e.g. "In Progress".
func (s Status) String() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return string(s)
}

// Category reports which group the status belongs to.
func (s Status) Category() Category {
	if info, ok := statusTable[s]; ok {
		return info.category
	}
	return CategoryUnknown
}

// Known reports whether s is part of the closed status set.
func (s Status) Known() bool {
	_, ok := statusTable[s]
	return ok
}

// ParseStatus resolves a token ("COMPLETED", case-insensitive, dashes or spaces allowed)
// or a label ("Completed") into a Status.
func ParseStatus(raw string) (Status, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if s := Status(norm); s.Known() {
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
