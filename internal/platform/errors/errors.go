// Package errors provides error types and utilities for reconflow.
// It extends the standard errors package with the failure classes the pipeline
// distinguishes: fatal (missing tool), per-stage, and triage-provider failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios
var (
	// ErrMissingBinary indicates a required external tool is not installed.
	// It is the only error that halts the whole run.
	ErrMissingBinary = errors.New("missing binary")

	// ErrStageFailed indicates an external tool exited with a non-zero status
	ErrStageFailed = errors.New("stage failed")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoProvider indicates no triage provider credential is configured
	ErrNoProvider = errors.New("no triage provider configured")

	// ErrProviderFailed indicates the triage provider call failed
	ErrProviderFailed = errors.New("triage provider failed")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates a service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// MissingBinaryError is returned when an external tool cannot be located.
type MissingBinaryError struct {
	Binary      string
	SearchPaths []string
	cause       error
}

// NewMissingBinaryError builds a MissingBinaryError for binary.
func NewMissingBinaryError(binary string, cause error, searchPaths ...string) *MissingBinaryError {
	return &MissingBinaryError{
		Binary:      binary,
		SearchPaths: searchPaths,
		cause:       cause,
	}
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Binary)
}

// Hint returns the remediation shown to the operator.
func (e *MissingBinaryError) Hint() string {
	return fmt.Sprintf("install it with pdtm (go install github.com/projectdiscovery/pdtm/cmd/pdtm@latest && pdtm -ia) "+
		"or add its directory to PATH (export PATH=~/go/bin:$PATH); searched: %s", strings.Join(e.SearchPaths, ":"))
}

// Is makes errors.Is(err, ErrMissingBinary) match.
func (e *MissingBinaryError) Is(target error) bool {
	return target == ErrMissingBinary
}

// Unwrap returns the lookup error reported by os/exec.
func (e *MissingBinaryError) Unwrap() error {
	return e.cause
}

// StageError describes an external tool that exited unsuccessfully.
type StageError struct {
	Stage    string
	Command  string
	ExitCode int
	Stderr   string
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %q exited with code %d", e.Stage, e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Is makes errors.Is(err, ErrStageFailed) match.
func (e *StageError) Is(target error) bool {
	return target == ErrStageFailed
}

// IsMissingBinary reports whether the error is caused by a missing external tool
func IsMissingBinary(err error) bool {
	return Is(err, ErrMissingBinary)
}

// IsNoProvider reports whether the error is a missing triage credential
func IsNoProvider(err error) bool {
	return Is(err, ErrNoProvider)
}
