package service

import (
	"errors"
	"fmt"

	"github.com/thingworks/things-api/internal/store"
)

// Common sentinel errors for the service layer
var (
	// ErrThingNotFound indicates that the thing does not exist
	ErrThingNotFound = errors.New("thing not found")
)

// ThingServiceError wraps errors from the thing service with context.
type ThingServiceError struct {
	// Operation is the operation that failed (e.g., "create_thing")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ThingServiceError.
func (e *ThingServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("thing service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("thing service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ThingServiceError) Unwrap() error {
	return e.Err
}

// NewThingServiceError creates a new ThingServiceError.
// Known sentinels are returned directly without wrapping so the API layer
// can map them to status codes with errors.Is.
func NewThingServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrThingNotFound) {
		return ErrThingNotFound
	}
	if errors.Is(err, store.ErrThingNotFound) {
		return ErrThingNotFound
	}

	return &ThingServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
