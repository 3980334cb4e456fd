package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExternalService is returned when an upstream dependency
	// (database, vector store, generation provider) fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// External wraps err so it classifies as ErrExternalService under errors.Is
// while keeping the original cause chain intact.
func External(err error) error {
	if err == nil {
		return nil
	}
	return &externalServiceError{cause: err}
}

type externalServiceError struct {
	cause error
}

func (e *externalServiceError) Error() string {
	return e.cause.Error()
}

func (e *externalServiceError) Unwrap() []error {
	return []error{ErrExternalService, e.cause}
}
