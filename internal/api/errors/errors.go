// Package errors defines the failures a generated field can resolve to.
//
// Every failure is a *FieldError wrapping one of the sentinel errors below, so
// callers can classify with errors.Is while GraphQL clients receive the
// message and a code extension.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel error classes
var (
	// ErrNotFound is returned when a single-item operation matches no document
	ErrNotFound = errors.New("not found")

	// ErrStoreFailure is returned when the store rejects or fails a query
	ErrStoreFailure = errors.New("store failure")

	// ErrUnknownOperation is returned when a field name has no registered operation
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrUnsupportedArgument is returned for argument values that cannot be bound
	ErrUnsupportedArgument = errors.New("unsupported argument")

	// ErrMissingArgument is returned when a single-item operation receives no identifying argument
	ErrMissingArgument = errors.New("missing argument")
)

// Codes reported in the "code" extension
const (
	CodeNotFound            = "NOT_FOUND"
	CodeStoreFailure        = "STORE_FAILURE"
	CodeUnknownOperation    = "UNKNOWN_OPERATION"
	CodeUnsupportedArgument = "UNSUPPORTED_ARGUMENT"
	CodeMissingArgument     = "MISSING_ARGUMENT"
	CodeInternal            = "INTERNAL"
)

// FieldError is the error a resolver returns for a failed field
type FieldError struct {
	Class   error
	Message string
	Cause   error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return e.Message
}

// Unwrap exposes the class sentinel and the underlying cause
func (e *FieldError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Class, e.Cause}
	}
	return []error{e.Class}
}

// Extensions implements the GraphQL extended error interface
func (e *FieldError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": Code(e),
	}
}

// Code returns the extension code for err
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrStoreFailure):
		return CodeStoreFailure
	case errors.Is(err, ErrUnknownOperation):
		return CodeUnknownOperation
	case errors.Is(err, ErrUnsupportedArgument):
		return CodeUnsupportedArgument
	case errors.Is(err, ErrMissingArgument):
		return CodeMissingArgument
	default:
		return CodeInternal
	}
}

// NotFound reports that no document of entity matched
func NotFound(entity string) error {
	return &FieldError{
		Class:   ErrNotFound,
		Message: fmt.Sprintf("%s not found", entity),
	}
}

// StoreFailure wraps a store error, keeping its message verbatim
func StoreFailure(err error) error {
	return &FieldError{
		Class:   ErrStoreFailure,
		Message: err.Error(),
		Cause:   err,
	}
}

// UnknownOperation reports a field name absent from the registry
func UnknownOperation(key string) error {
	return &FieldError{
		Class:   ErrUnknownOperation,
		Message: fmt.Sprintf("unknown operation %q", key),
	}
}

// UnsupportedArgument reports an argument whose value cannot be bound
func UnsupportedArgument(name string, value interface{}) error {
	return &FieldError{
		Class:   ErrUnsupportedArgument,
		Message: fmt.Sprintf("argument %q: non-scalar value of type %T cannot be used as a filter", name, value),
	}
}

// MissingArgument reports a single-item operation called without identifying arguments
func MissingArgument(operation string, candidates []string) error {
	return &FieldError{
		Class:   ErrMissingArgument,
		Message: fmt.Sprintf("%s requires at least one of %v", operation, candidates),
	}
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStoreFailure returns true if the error is ErrStoreFailure
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}

// IsUnknownOperation returns true if the error is ErrUnknownOperation
func IsUnknownOperation(err error) bool {
	return errors.Is(err, ErrUnknownOperation)
}
