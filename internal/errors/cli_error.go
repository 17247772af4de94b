/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package errors defines the user-facing error type of envctl and maps
// errors to process exit codes.
package errors

import (
	"errors"
	"fmt"
)

// ExitCode represents the type of error for exit code determination.
type ExitCode int

const (
	ExitRuntime       ExitCode = 1 // Runtime/execution errors
	ExitUsage         ExitCode = 2 // Usage/argument errors
	ExitInvalidConfig ExitCode = 3 // A configuration record or envctl.yaml failed validation
)

// CLIError is a user-friendly error with optional suggestion and details.
// It wraps an underlying Go error while providing a clean message for users.
type CLIError struct {
	Message    string   // User-friendly message (shown prominently)
	Cause      error    // Underlying Go error (shown dimmed)
	Suggestion string   // "Hint: ..." actionable suggestion for fixing the error
	Details    []string // Extra bullet points with additional context
	Code       ExitCode
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// IsUsageError returns true if this is a usage/argument error.
func (e *CLIError) IsUsageError() bool {
	return e.Code == ExitUsage
}

// WithSuggestion adds a suggestion hint to the error.
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// WithDetails adds detail bullet points to the error.
func (e *CLIError) WithDetails(details ...string) *CLIError {
	e.Details = append(e.Details, details...)
	return e
}

// WithCause sets the underlying cause error.
func (e *CLIError) WithCause(cause error) *CLIError {
	e.Cause = cause
	return e
}

func newError(code ExitCode, cause error, message string) *CLIError {
	return &CLIError{Message: message, Cause: cause, Code: code}
}

// New creates a new runtime CLIError.
func New(message string) *CLIError {
	return newError(ExitRuntime, nil, message)
}

// Newf creates a new runtime CLIError with a formatted message.
func Newf(format string, args ...any) *CLIError {
	return newError(ExitRuntime, nil, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a user-friendly message.
func Wrap(cause error, message string) *CLIError {
	return newError(ExitRuntime, cause, message)
}

// Wrapf wraps an existing error with a formatted user-friendly message.
func Wrapf(cause error, format string, args ...any) *CLIError {
	return newError(ExitRuntime, cause, fmt.Sprintf(format, args...))
}

// NewUsageError creates a new usage/argument error.
// Usage errors cause the command's usage help to be shown.
func NewUsageError(message string) *CLIError {
	return newError(ExitUsage, nil, message)
}

// NewUsageErrorf creates a new usage/argument error with formatting.
func NewUsageErrorf(format string, args ...any) *CLIError {
	return newError(ExitUsage, nil, fmt.Sprintf(format, args...))
}

// WrapUsageError wraps an existing error as a usage error.
func WrapUsageError(cause error, message string) *CLIError {
	return newError(ExitUsage, cause, message)
}

// NewInvalidConfigf reports a configuration that failed validation.
func NewInvalidConfigf(format string, args ...any) *CLIError {
	return newError(ExitInvalidConfig, nil, fmt.Sprintf(format, args...))
}

// WrapInvalidConfig wraps a validation failure, eg, an *envconfig.FieldError.
func WrapInvalidConfig(cause error, message string) *CLIError {
	return newError(ExitInvalidConfig, cause, message)
}

// IsUsageError checks if an error is a usage error (should show usage help).
func IsUsageError(err error) bool {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.IsUsageError()
	}
	return false
}

// GetExitCode returns the appropriate exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return int(cliErr.Code)
	}
	return int(ExitRuntime)
}

// AsCLIError attempts to extract a CLIError from an error chain.
func AsCLIError(err error) (*CLIError, bool) {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr, true
	}
	return nil, false
}
