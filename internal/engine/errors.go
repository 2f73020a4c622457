package engine

import "fmt"

// PreconditionError means the match could not start: missing team,
// formation, or fewer than 11 eligible players. Surfaced before any tick.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return "precondition failed: " + e.Reason }

func precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantError means a state mutation would corrupt the match. Fatal: the
// stream ends with a terminal error frame and partial state is discarded.
type InvariantError struct {
	Minute int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated at minute %d: %s", e.Minute, e.Reason)
}

func invariant(minute int, format string, args ...any) error {
	return &InvariantError{Minute: minute, Reason: fmt.Sprintf(format, args...)}
}

// wrapInternal tags an unexpected failure with tick context for diagnostics.
func wrapInternal(minute int, eventType string, err error) error {
	return fmt.Errorf("minute %d event %s: %w", minute, eventType, err)
}
