// Package apperrors defines the error taxonomy shared by services and
// handlers: forbidden, not found, validation, and everything else
// (internal, surfaced to callers as a generic failure).
package apperrors

import (
	"errors"
	"strings"
)

// ErrForbidden signals that the actor lacks the capability for the
// requested action. Never retried.
var ErrForbidden = errors.New("forbidden")

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationError carries an ordered list of human-readable field
// messages. The caller may correct the input and retry.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func Validation(messages ...string) error {
	return &ValidationError{Messages: messages}
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
