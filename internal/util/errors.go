package util

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for testherd
var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPoolClosed indicates a task was submitted to a closed pool
	ErrPoolClosed = errors.New("pool is closed")

	// ErrProjectNotFound indicates a task referenced an unknown project
	ErrProjectNotFound = errors.New("project not found")

	// ErrHookNotFound indicates a teardown hook reference could not be resolved
	ErrHookNotFound = errors.New("teardown hook not found")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")
)

// TaskError wraps an error with the failing task's identity
type TaskError struct {
	TaskID string
	Err    error
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q: %v", e.TaskID, e.Err)
}

// Unwrap returns the wrapped error for errors.Is/As compatibility
func (e *TaskError) Unwrap() error {
	return e.Err
}

// WrapTaskError wraps an error with task context
func WrapTaskError(taskID string, err error) error {
	if err == nil {
		return nil
	}
	return &TaskError{TaskID: taskID, Err: err}
}

// IsTaskError checks if an error is a task-level execution failure
func IsTaskError(err error) bool {
	var taskErr *TaskError
	return errors.As(err, &taskErr)
}

// TeardownError wraps a failure from the one-shot teardown hook. Unlike task
// failures, it surfaces through the dispatcher's aggregate error.
type TeardownError struct {
	Hook string
	Err  error
}

// Error implements the error interface
func (e *TeardownError) Error() string {
	return fmt.Sprintf("teardown hook %q: %v", e.Hook, e.Err)
}

// Unwrap returns the wrapped error
func (e *TeardownError) Unwrap() error {
	return e.Err
}

// WrapTeardownError wraps an error with teardown hook context
func WrapTeardownError(hook string, err error) error {
	if err == nil {
		return nil
	}
	return &TeardownError{Hook: hook, Err: err}
}

// IsTeardownError checks if an error came from the teardown hook
func IsTeardownError(err error) bool {
	var tdErr *TeardownError
	return errors.As(err, &tdErr)
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds a non-nil error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// CombineErrors combines multiple errors into a single error, filtering nils.
// Returns nil if all errors are nil.
func CombineErrors(errs ...error) error {
	m := &MultiError{}
	for _, err := range errs {
		m.Add(err)
	}
	return m.ErrorOrNil()
}

// WrapErrorf wraps an error with a formatted message
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// FriendlyError converts technical errors to user-friendly messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return "Invalid configuration. Please check your config file and command-line flags."
	case errors.Is(err, ErrProjectNotFound):
		return "Project not found. Please check the project names in your config file."
	case errors.Is(err, ErrHookNotFound):
		return "Teardown hook not found. Please check the teardown reference in your config file."
	case errors.Is(err, ErrPoolClosed):
		return "The executor pool was already closed. This is a bug; please report it."
	case errors.Is(err, ErrCancelled):
		return "Operation was cancelled."
	case IsTeardownError(err):
		return fmt.Sprintf("Teardown failed after all tasks settled: %v", err)
	default:
		return err.Error()
	}
}
