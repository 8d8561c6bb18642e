package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewNotFoundError("Show", "abc"), fiber.StatusNotFound},
		{NewValidationError("bad input"), fiber.StatusBadRequest},
		{NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{NewForbiddenError("admins only"), fiber.StatusForbidden},
		{NewConflictError("duplicate"), fiber.StatusConflict},
		{NewFailedPreconditionError("schema out of date", errors.New("no such column")), fiber.StatusPreconditionFailed},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain error"), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("Episode", 1)), fiber.StatusNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusForError(tc.err), "error: %v", tc.err)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")

	var appErr *AppError
	assert.ErrorAs(t, fmt.Errorf("ctx: %w", err), &appErr)
	assert.Equal(t, CodeInternal, appErr.Code)
}
