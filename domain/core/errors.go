package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrArtifactNotFound = fmt.Errorf("%w: artifact", ErrNotFound)
	ErrColumnNotFound   = errors.New("column not found in input schema")

	// Validation errors
	ErrSchemaMismatch   = errors.New("input schema out of sync with field naming convention")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrExcludedInOutput = errors.New("excluded participant present in output")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// NewSchemaMismatchError reports a referenced field absent from the input header.
// This is fatal: continuing would silently undercount observations.
func NewSchemaMismatchError(field string) error {
	return fmt.Errorf("%w: field %q", ErrSchemaMismatch, field)
}

// NewInsufficientDataError reports a group too small for a statistical test.
func NewInsufficientDataError(group string, n int) error {
	return fmt.Errorf("%w: group %q has %d observation(s), need at least 2", ErrInsufficientData, group, n)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsSchemaMismatch(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
