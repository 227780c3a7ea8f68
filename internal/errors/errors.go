// Package errors provides structured error handling for the gitpaper CLI.
// Every error carries a category that maps to a process exit code, plus
// optional remediation steps shown to the user.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents the type of error that occurred.
type ErrorCategory int

const (
	// Runtime errors occur during changelog generation.
	Runtime ErrorCategory = iota
	// Argument errors are caused by invalid or conflicting flags.
	Argument
	// Configuration errors are caused by unreadable or invalid configuration.
	Configuration
	// Repository errors come from opening or walking the git repository.
	Repository
	// Remote errors come from the hosting API (user lookup, releases, overview).
	Remote
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Repository:
		return "Repository Error"
	case Remote:
		return "Remote Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// ExitCode returns the process exit code for the category.
func (c ErrorCategory) ExitCode() int {
	switch c {
	case Argument:
		return 3
	case Configuration:
		return 4
	case Repository:
		return 5
	case Remote:
		return 6
	default:
		return 1
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	// Usage shows the correct command syntax (argument errors only).
	Usage string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *CLIError) Unwrap() error {
	return e.Err
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentError creates a new argument error.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage creates an argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	e := newError(Argument, message, remediation)
	e.Usage = usage
	return e
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewRepositoryError creates a new repository error.
func NewRepositoryError(message string, remediation ...string) *CLIError {
	return newError(Repository, message, remediation)
}

// NewRemoteError creates a new remote error.
func NewRemoteError(message string, remediation ...string) *CLIError {
	return newError(Remote, message, remediation)
}

// NewRuntimeError creates a new runtime error.
func NewRuntimeError(message string, remediation ...string) *CLIError {
	return newError(Runtime, message, remediation)
}

// Wrap wraps an existing error with a CLIError, preserving the original message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, err.Error(), remediation)
	e.Err = err
	return e
}

// WrapWithMessage wraps an error with a custom message and category.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	e := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	e.Err = err
	return e
}

// AsCLIError finds the first CLIError in err's chain.
// Returns nil if there is none.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}

// IsCLIError reports whether err's chain contains a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// ExitCode returns the exit code for err: 0 for nil, the category code for a
// CLIError, and the runtime code otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return cliErr.Category.ExitCode()
	}
	return Runtime.ExitCode()
}
