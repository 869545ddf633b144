package services

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("task does not belong to the caller")
	ErrInvalidDueDate     = errors.New("due date must be in the future")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateUsername  = errors.New("username already exists")
)

// MissingFieldError reports a required creation field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ValidationError reports a field that is present but violates its constraint.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Constraint)
}

// IsValidationError reports whether err is any of the pre-write validation
// failures. These are detected before any persistence call, so a caller
// seeing one knows no side effects happened.
func IsValidationError(err error) bool {
	var missing *MissingFieldError
	var invalid *ValidationError
	return errors.As(err, &missing) || errors.As(err, &invalid) || errors.Is(err, ErrInvalidDueDate)
}
