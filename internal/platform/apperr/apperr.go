// Package apperr defines the application error taxonomy shared by the
// service and handler layers.
package apperr

import "fmt"

// Kind classifies an application error for HTTP mapping.
type Kind int

const (
	// KindValidation marks malformed or inconsistent input.
	KindValidation Kind = iota
	// KindNotFound marks a missing entity.
	KindNotFound
	// KindUnavailable marks an upstream collaborator failure.
	KindUnavailable
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error.
func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NewNotFoundError creates a not-found error for the given entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewUnavailableError creates an upstream-failure error.
func NewUnavailableError(msg string) *Error {
	return &Error{Kind: KindUnavailable, Message: msg}
}
