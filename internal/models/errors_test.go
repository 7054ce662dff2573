package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	plain := NewValidationError("Signature is required")
	assert.Equal(t, "Signature is required", plain.Error())

	wrapped := NewInternalError(errors.New("connection refused"))
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestAppError_Is(t *testing.T) {
	err := NewNotFoundError("User", 42)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	// Matching survives wrapping.
	chained := fmt.Errorf("looking up signer: %w", err)
	assert.True(t, errors.Is(chained, ErrNotFound))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate key value violates unique constraint")
	err := NewConstraintError("You have already signed the petition", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "You have already signed the petition",
		UserMessage(NewConstraintError("You have already signed the petition", errors.New("23505"))))
	assert.Equal(t, "Invalid email or password", UserMessage(NewInvalidCredentialsError()))

	// Non-application errors never leak their text to the page.
	assert.Equal(t, "Something went wrong, please try again",
		UserMessage(errors.New("pq: connection reset by peer")))
}
