// Package apperr defines the error taxonomy shared by the data-access layer
// and the HTTP layer. Every failure a repository reports carries a Kind, and
// the HTTP layer switches on the Kind rather than on message content.
package apperr

import "errors"

// Kind classifies a failure for status mapping.
type Kind int

const (
	// KindInternal is the default for anything unclassified (maps to 500).
	KindInternal Kind = iota
	// KindValidation marks malformed or out-of-bound input (400).
	KindValidation
	// KindTrigger marks a domain-trigger rejection before a write (400).
	KindTrigger
	// KindNotFound marks lookups or mutations that matched nothing (404).
	KindNotFound
	// KindConflict marks uniqueness violations on user creation (409).
	KindConflict
)

// Error is a tagged application error.
type Error struct {
	Kind Kind
	// Field names the colliding field for conflict errors, empty otherwise.
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// New returns a tagged error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation returns a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Trigger returns a KindTrigger error.
func Trigger(message string) *Error {
	return &Error{Kind: KindTrigger, Message: message}
}

// NotFound returns a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a KindConflict error naming the colliding field.
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// KindOf extracts the Kind from err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldOf extracts the colliding field name, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
