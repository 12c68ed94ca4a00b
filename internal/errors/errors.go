// LOCATION: internal/errors/errors.go
//
// This file provides:
// - Sentinel errors for configuration, input and integrity conditions
// - Error category checking functions
// - Exit codes for the command-line tools
// - Error wrapping utilities
// - A collector for multi-field validation errors

package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Exit codes - used by cmd/extsort and cmd/extsort-stats
// ============================================================================

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitIntegrity = 3
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Validation errors
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrInvalidFileCount    = errors.New("invalid file count")
	ErrInvalidMemoryBudget = errors.New("invalid memory budget")
	ErrInvalidStrategy     = errors.New("invalid strategy")
	ErrMissingField        = errors.New("missing required field")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Integrity errors: a core invariant was violated. These never occur
	// under correct use.
	ErrIntegrity      = errors.New("integrity violation")
	ErrQuotaExhausted = errors.New("every destination file is at quota")
	ErrNotSorted      = errors.New("run is not ascending")

	// Output errors
	ErrWriterClosed = errors.New("writer is closed")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// Join is a convenience wrapper for errors.Join
var Join = errors.Join

// IsValidation returns true if err is a configuration error detected
// before any work was done.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidFileCount) ||
		errors.Is(err, ErrInvalidMemoryBudget) ||
		errors.Is(err, ErrInvalidStrategy) ||
		errors.Is(err, ErrMissingField)
}

// IsIntegrity returns true if err reports a broken core invariant.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrity) ||
		errors.Is(err, ErrQuotaExhausted) ||
		errors.Is(err, ErrNotSorted)
}

// ExitCode maps an error to the process exit code used by the commands.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsValidation(err), errors.Is(err, ErrInvalidInput):
		return ExitUsage
	case IsIntegrity(err):
		return ExitIntegrity
	default:
		return ExitFailure
	}
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// NewInvalidValue creates an invalid value error wrapping the given sentinel.
func NewInvalidValue(sentinel error, field string, value interface{}, reason string) error {
	return fmt.Errorf("invalid %s '%v': %s: %w", field, value, reason, sentinel)
}

// NewIntegrity creates an integrity error with a formatted description.
func NewIntegrity(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrIntegrity)
}

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// AddField adds a field validation error.
func (v *ValidationErrors) AddField(field, reason string) {
	v.Errors = append(v.Errors, NewValidation(field, reason))
}

// AddMissing adds a missing field error.
func (v *ValidationErrors) AddMissing(field string) {
	v.Errors = append(v.Errors, NewMissingField(field))
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	msg := fmt.Sprintf("validation failed with %d errors:", len(v.Errors))
	for _, err := range v.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Err returns nil if no errors, otherwise returns the ValidationErrors.
func (v *ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Unwrap returns the collected errors for errors.Is/As support.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}
