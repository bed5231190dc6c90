package service

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a task or completion does not exist or does not
// belong to the caller. It is deliberately indistinguishable between the
// two cases so ownership cannot be probed.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials signals a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError reports invalid input naming the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
