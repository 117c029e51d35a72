package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewConflictError("dup", nil), http.StatusBadRequest},
		{NewBadRequestError("bad", nil), http.StatusBadRequest},
		{NewUnauthorizedError("no", nil), http.StatusUnauthorized},
		{NewForbiddenError("no", nil), http.StatusForbidden},
		{NewNotFoundError("gone", nil), http.StatusNotFound},
		{NewTooManyRequestsError("slow down"), http.StatusTooManyRequests},
		{NewDatabaseError("db", nil), http.StatusInternalServerError},
		{NewInternalError("boom", nil), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, c.err.StatusCode())
	}
}

func TestClientMessageHidesInternals(t *testing.T) {
	err := NewDatabaseError("connection refused to 10.0.0.5", errors.New("dial tcp: refused"))
	message, ok := err.ClientMessage().(string)
	require.True(t, ok)
	assert.NotContains(t, message, "10.0.0.5")
}

func TestClientMessageValidationList(t *testing.T) {
	err := NewValidationError("name is required", "email must be valid")
	messages, ok := err.ClientMessage().([]string)
	require.True(t, ok)
	assert.Len(t, messages, 2)

	single := NewValidationError("name is required")
	_, isString := single.ClientMessage().(string)
	assert.True(t, isString, "a single message collapses to a string")
}

func TestFromError(t *testing.T) {
	original := NewNotFoundError("gone", nil)
	wrapped := fmt.Errorf("handler: %w", original)

	appErr, ok := FromError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.False(t, IsNotFound(NewConflictError("x", nil)))
	assert.True(t, IsConflict(NewConflictError("x", nil)))
	assert.True(t, IsUnauthorized(NewUnauthorizedError("x", nil)))
	assert.True(t, IsForbidden(NewForbiddenError("x", nil)))
	assert.True(t, IsValidation(NewValidationError("x")))
}
