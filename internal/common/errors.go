// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound = errors.New("not found")

	// Training errors.
	ErrTrainingData = errors.New("insufficient training data")

	// Artifact errors.
	ErrSchemaMismatch = errors.New("artifact schema mismatch")

	// Prediction errors.
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEstimatorNotLoaded = errors.New("estimator not loaded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRequestError reports whether an error is recoverable by the caller
// correcting the request, as opposed to a service-level failure.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrUnknownCategory) || errors.Is(err, ErrInvalidInput)
}
