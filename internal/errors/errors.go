package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Exit codes for tmplcheck
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitSetupError       = 2
	ExitMaterializeError = 3
	ExitBuildFailed      = 4
	ExitConfigError      = 5
)

// CheckError is the base error type for tmplcheck
type CheckError struct {
	Code    int
	Message string
	Cause   error

	// Output holds captured process output attached for diagnosis.
	Output string
}

func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CheckError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *CheckError) ExitCode() int {
	return e.Code
}

// New creates a new CheckError
func New(code int, message string) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a CheckError
func Wrap(code int, message string, cause error) *CheckError {
	return &CheckError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// SetupFailed returns an error for sandbox directory or repository setup
func SetupFailed(op string, cause error) *CheckError {
	return Wrap(ExitSetupError, fmt.Sprintf("sandbox %s failed", op), cause)
}

// MaterializeFailed returns an error for template materialization
func MaterializeFailed(message string, cause error) *CheckError {
	return Wrap(ExitMaterializeError, message, cause)
}

// MissingParameters returns a materialization error naming every missing key
func MissingParameters(keys []string) *CheckError {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return New(ExitMaterializeError, fmt.Sprintf("missing required parameters: %s", strings.Join(sorted, ", ")))
}

// BuildFailed returns an error for a failed documentation build, carrying
// the captured output of the build command.
func BuildFailed(message string, cause error, output string) *CheckError {
	err := Wrap(ExitBuildFailed, message, cause)
	err.Output = output
	return err
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *CheckError {
	return Wrap(ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *CheckError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.ExitCode()
	}
	return ExitGeneralError
}

// IsFailure reports whether err is a build failure, as opposed to an error
// raised while preparing the sandbox or materializing the template.
func IsFailure(err error) bool {
	return GetExitCode(err) == ExitBuildFailed
}

// OutputOf returns the captured output attached to err, if any.
func OutputOf(err error) string {
	var checkErr *CheckError
	if errors.As(err, &checkErr) {
		return checkErr.Output
	}
	return ""
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
