package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{"not found", NotFound("course not found"), http.StatusNotFound, "course not found"},
		{"validation", Validation("title is required"), http.StatusBadRequest, "title is required"},
		{"unauthenticated", Unauthenticated("invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", Forbidden("purchase required"), http.StatusForbidden, "purchase required"},
		{"conflict", Conflict("email already registered"), http.StatusConflict, "email already registered"},
		{"wrapped kind", fmt.Errorf("failed to get course: %w", NotFound("course not found")), http.StatusNotFound, "course not found"},
		{"plain error", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := HTTPStatus(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("purchase required"))

	assert.True(t, Is(err, KindForbidden))
	assert.False(t, Is(err, KindNotFound))
	assert.False(t, Is(nil, KindInternal))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := &Error{Kind: KindConflict, Message: "already exists", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "already exists: duplicate entry", err.Error())
}
