package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes carried in failure envelopes.
const (
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeUserAlreadyExists = "USER_ALREADY_EXISTS"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	CodeInternalError     = "INTERNAL_ERROR"
)

var (
	// ErrUserNotFound is returned when no active user matches the id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidPagination is returned when pagination parameters are out of range.
	ErrInvalidPagination = errors.New("invalid pagination parameters: page must be >= 1, limit must be between 1 and 100")
)

// UserAlreadyExistsError is returned when an email is already taken.
// It carries the conflicting email.
type UserAlreadyExistsError struct {
	Email string
}

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user with this email already exists: %s", e.Email)
}

// ErrorDetail holds the human-readable part of a failure envelope.
type ErrorDetail struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	ErrorCode string      `json:"errorCode"`
	Error     ErrorDetail `json:"error"`
}

// NewErrorResponse creates a failure envelope.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		ErrorCode: code,
		Error:     ErrorDetail{Message: message},
	}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to the response envelope.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return NewErrorResponse(e.Code, e.Message)
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unexpected errors
// collapse to a generic 500; their detail belongs in the log, not the
// response body.
func MapErrorToHTTP(err error) *HTTPError {
	var exists *UserAlreadyExistsError
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), CodeUserNotFound)
	case errors.As(err, &exists):
		return NewHTTPError(http.StatusConflict, exists.Error(), CodeUserAlreadyExists)
	case errors.Is(err, ErrInvalidPagination):
		return NewHTTPError(http.StatusBadRequest, err.Error(), CodeValidationFailed)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", CodeInternalError)
	}
}
