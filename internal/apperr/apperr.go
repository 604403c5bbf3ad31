// Package apperr defines the error taxonomy shared by the store, the
// live-config syncer and the batch orchestrator. Callers dispatch on the
// sentinel errors with errors.Is and on the typed errors with errors.As.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports an id or name lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName reports a (app type, name) uniqueness violation.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrPartialFailure reports a batch run in which at least one item
	// failed while others may have succeeded. Per-item detail lives in the
	// batch report, not in the error chain.
	ErrPartialFailure = errors.New("some batch items failed")
)

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Duplicatef wraps ErrDuplicateName with context.
func Duplicatef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDuplicateName)...)
}

// ValidationError reports a malformed provider field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// CorruptError reports a live config file the engine could not fully parse.
// The syncer fails closed on it: no write is attempted against the file.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("live config unparseable: %s: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// LivenessError reports a provider endpoint that failed its check. It wraps
// the transport or HTTP-status cause.
type LivenessError struct {
	Provider string
	Err      error
}

func (e *LivenessError) Error() string {
	return fmt.Sprintf("liveness check failed: %s: %v", e.Provider, e.Err)
}

func (e *LivenessError) Unwrap() error { return e.Err }

// IoError carries path context for filesystem failures.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("io error: %s: %v", e.Path, e.Err)
}

func (e *IoError) Unwrap() error { return e.Err }
