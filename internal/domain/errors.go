// Package domain holds the quote widget's types and its error vocabulary.
// Errors name what failed in widget terms. Adapters turn them into status
// codes, log lines or user messages.
package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is. Every typed error below unwraps to one.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")

	// ErrProviderUnavailable indicates a single quote provider could not produce a quote.
	// It is recovered by falling through to the next provider.
	ErrProviderUnavailable = errors.New("quote provider unavailable")

	// ErrPersistenceUnavailable indicates the favorites storage could not be read or written.
	// It is recovered by treating favorites as empty or by keeping the in-memory state.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrClipboardUnavailable indicates a clipboard mechanism failed.
	// It is recovered by falling back to the legacy clipboard.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// NotFoundError names the missing entity, such as a favorite id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError reports entity id as missing. id may be empty.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError is rejected user input. Field is the input's wire name.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also keeps the rejected value for logs.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnavailableError is a dependency that is not serving at all.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

// ProviderUnavailableError records why one provider produced no quote.
type ProviderUnavailableError struct {
	Provider string
	Reason   string
	Cause    error
}

func (e *ProviderUnavailableError) Error() string {
	msg := fmt.Sprintf("provider %q unavailable", e.Provider)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *ProviderUnavailableError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProviderUnavailable}
	}

	return []error{ErrProviderUnavailable, e.Cause}
}

// NewProviderUnavailableError creates a provider error with a reason and optional cause.
func NewProviderUnavailableError(provider, reason string, cause error) error {
	return &ProviderUnavailableError{Provider: provider, Reason: reason, Cause: cause}
}

// PersistenceError records a failed storage operation.
type PersistenceError struct {
	Operation string
	Key       string
	Cause     error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %q: %v", e.Operation, e.Key, e.Cause)
	}

	return fmt.Sprintf("%s %q failed", e.Operation, e.Key)
}

func (e *PersistenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPersistenceUnavailable}
	}

	return []error{ErrPersistenceUnavailable, e.Cause}
}

// NewPersistenceError creates a persistence error for the given operation and key.
func NewPersistenceError(operation, key string, cause error) error {
	return &PersistenceError{Operation: operation, Key: key, Cause: cause}
}

// ClipboardError records a failed clipboard write.
type ClipboardError struct {
	Mechanism string
	Cause     error
}

func (e *ClipboardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("clipboard %q: %v", e.Mechanism, e.Cause)
	}

	return fmt.Sprintf("clipboard %q failed", e.Mechanism)
}

func (e *ClipboardError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrClipboardUnavailable}
	}

	return []error{ErrClipboardUnavailable, e.Cause}
}

// NewClipboardError creates a clipboard error for the named mechanism.
func NewClipboardError(mechanism string, cause error) error {
	return &ClipboardError{Mechanism: mechanism, Cause: cause}
}

// IsNotFound and the other Is helpers match the sentinels through any
// amount of wrapping.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

func IsPersistenceUnavailable(err error) bool {
	return errors.Is(err, ErrPersistenceUnavailable)
}

func IsClipboardUnavailable(err error) bool {
	return errors.Is(err, ErrClipboardUnavailable)
}
