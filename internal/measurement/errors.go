package measurement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolvable marks an entity that cannot be drawn this frame
	ErrUnresolvable = errors.New("entity cannot be resolved")
	// ErrDuplicate is returned when an equivalent live entity already exists
	ErrDuplicate = errors.New("equivalent measurement already exists")
	// ErrPrecondition is returned when an operation receives insufficient input
	ErrPrecondition = errors.New("precondition failed")
	// ErrNotFound is returned for stale or unknown entity identifiers
	ErrNotFound = errors.New("entity not found")
)

// UnresolvableError describes why an entity was skipped
type UnresolvableError struct {
	Kind   Kind
	Reason string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Unwrap returns ErrUnresolvable
func (e *UnresolvableError) Unwrap() error {
	return ErrUnresolvable
}

func unresolvable(kind Kind, format string, args ...any) error {
	return &UnresolvableError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// AxisWarning reports a distance that ignores a non-zero delta on an excluded axis.
// It is informational and never returned as an error.
type AxisWarning struct {
	Excluded [3]float64 // Delta along each excluded axis, zero for included ones
}

func (w *AxisWarning) Error() string {
	return fmt.Sprintf("excluded axis delta (%.4g, %.4g, %.4g)", w.Excluded[0], w.Excluded[1], w.Excluded[2])
}
