package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Argument errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNonPositiveSize = fmt.Errorf("%w: size must be positive", ErrInvalidArgument)
	ErrFoldCount       = fmt.Errorf("%w: fold count", ErrInvalidArgument)
	ErrSelectionCount  = fmt.Errorf("%w: selected feature count", ErrInvalidArgument)

	// Numerical errors
	ErrNumericalDegenerate = errors.New("numerically degenerate input")
	ErrZeroVariance        = fmt.Errorf("%w: zero-variance feature", ErrNumericalDegenerate)

	// Not found errors
	ErrNotFound    = errors.New("resource not found")
	ErrRunNotFound = fmt.Errorf("%w: run", ErrNotFound)

	// Determinism errors
	ErrNonDeterministic = errors.New("non-deterministic result")
	ErrSeedMismatch     = errors.New("seed mismatch")
)

// Error constructors with context
func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, reason)
}

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsInvalidArgumentError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

func IsNumericalDegenerateError(err error) bool {
	return errors.Is(err, ErrNumericalDegenerate)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
