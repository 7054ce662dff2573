package models

import (
	"fmt"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors by code so errors.Is works across wrapped values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewConstraintError reports a database constraint violation (duplicate
// email, duplicate signature).
func NewConstraintError(message string, err error) *AppError {
	return &AppError{
		Code:    "CONSTRAINT_VIOLATION",
		Message: message,
		Err:     err,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid email or password",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_FAILURE",
		Message: "Something went wrong, please try again",
		Err:     err,
	}
}

// Sentinels for errors.Is checks against any error of the same code.
var (
	ErrNotFound           = &AppError{Code: "NOT_FOUND"}
	ErrValidation         = &AppError{Code: "VALIDATION_ERROR"}
	ErrConstraint         = &AppError{Code: "CONSTRAINT_VIOLATION"}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS"}
	ErrInternal           = &AppError{Code: "PERSISTENCE_FAILURE"}
)

// UserMessage returns the text shown to the user when a form is re-rendered
// with an error. Internal details are never exposed to the page.
func UserMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Message
	}
	return "Something went wrong, please try again"
}
