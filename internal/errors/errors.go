package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorVerdict   = 3   // Indicates the verdict fell below the required minimum.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorReference = 5   // Indicates the reference provider could not produce a reference.
	ExitErrorIO        = 6   // Indicates a persistence failure.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ShapeMismatchError reports that a reference channel and its paired
// candidate channel do not hold the same number of samples.
type ShapeMismatchError struct {
	// Channel is the index of the offending channel pair.
	Channel int
	// ReferenceLen is the number of samples in the reference channel.
	ReferenceLen int
	// CandidateLen is the number of samples in the candidate channel.
	CandidateLen int
}

// Error returns a formatted message describing the mismatch.
func (e ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch on channel %d: reference has %d samples, candidate has %d",
		e.Channel, e.ReferenceLen, e.CandidateLen)
}

// ReferenceUnavailableError is returned by a reference provider that could
// not produce a reference computation. Its message is shown to the user
// verbatim.
type ReferenceUnavailableError struct {
	// Reason is the human-readable explanation supplied by the provider.
	Reason string
}

// Error returns the provider's reason unchanged.
func (e *ReferenceUnavailableError) Error() string { return e.Reason }

// NewReferenceUnavailable creates a ReferenceUnavailableError with a formatted reason.
func NewReferenceUnavailable(format string, a ...any) error {
	return &ReferenceUnavailableError{Reason: fmt.Sprintf(format, a...)}
}

// IOError wraps a failure to persist data (report, history, metrics).
type IOError struct {
	// Op names the operation that failed (e.g., "write report").
	Op string
	// Path is the file involved, if any.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error returns a formatted message describing the I/O failure.
func (e IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e IOError) Unwrap() error { return e.Cause }

// ComputationError encapsulates an unexpected numeric fault (NaN, Inf, empty
// input) raised while computing metrics or building a report.
type ComputationError struct {
	// Stage is the pipeline stage in which the fault occurred.
	Stage string
	// Cause is the underlying error that triggered this computation error.
	Cause error
}

// Error returns the stage and the message from the underlying cause.
func (e ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e ComputationError) Unwrap() error { return e.Cause }

// TimeoutError represents a run timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	if e.Limit <= 0 {
		return fmt.Sprintf("operation %q timed out", e.Operation)
	}
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// VerdictError reports a successful run whose verdict is worse than the
// required minimum.
type VerdictError struct {
	Verdict string
	Minimum string
}

// Error returns a formatted message naming both verdicts.
func (e VerdictError) Error() string {
	return fmt.Sprintf("verdict %s is below the required %s", e.Verdict, e.Minimum)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error to the process exit code that best describes it.
// A nil error maps to ExitSuccess.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		configErr  ConfigError
		refErr     *ReferenceUnavailableError
		ioErr      IOError
		timeoutErr TimeoutError
		verdictErr VerdictError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr):
		return ExitErrorConfig
	case errors.As(err, &refErr):
		return ExitErrorReference
	case errors.As(err, &ioErr):
		return ExitErrorIO
	case errors.As(err, &verdictErr):
		return ExitErrorVerdict
	}
	return ExitErrorGeneric
}
