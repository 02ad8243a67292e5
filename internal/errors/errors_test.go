package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{name: "user not found", err: ErrUserNotFound, expectedStatus: http.StatusNotFound, expectedCode: CodeUserNotFound},
		{name: "wrapped user not found", err: fmt.Errorf("lookup: %w", ErrUserNotFound), expectedStatus: http.StatusNotFound, expectedCode: CodeUserNotFound},
		{name: "email conflict", err: &UserAlreadyExistsError{Email: "a@b.com"}, expectedStatus: http.StatusConflict, expectedCode: CodeUserAlreadyExists},
		{name: "invalid pagination", err: ErrInvalidPagination, expectedStatus: http.StatusBadRequest, expectedCode: CodeValidationFailed},
		{name: "unexpected error is masked", err: errors.New("dial tcp: connection refused"), expectedStatus: http.StatusInternalServerError, expectedCode: CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedStatus, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.Code)
			if tt.expectedCode == CodeInternalError {
				assert.Equal(t, "internal server error", httpErr.Message)
			}
		})
	}
}

func TestToErrorResponse(t *testing.T) {
	httpErr := MapErrorToHTTP(&UserAlreadyExistsError{Email: "a@b.com"})
	resp := httpErr.ToErrorResponse()

	assert.False(t, resp.Success)
	assert.Equal(t, CodeUserAlreadyExists, resp.ErrorCode)
	assert.Equal(t, "user with this email already exists: a@b.com", resp.Error.Message)
}
