package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned alongside HTTP status codes.
const (
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeNotFound             = "NOT_FOUND"
	CodeEmailExists          = "EMAIL_EXISTS"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeConversationNotFound = "CONVERSATION_NOT_FOUND"
	CodeAIServiceError       = "AI_SERVICE_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
)

// APIError is the structured error returned to API clients. Handlers and
// the mapper construct these; the response layer serializes them.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

func notFound(code, message string) *APIError {
	return newAPIError(http.StatusNotFound, code, message)
}

func badRequest(code, message string) *APIError {
	return newAPIError(http.StatusBadRequest, code, message)
}

func unauthorized(message string) *APIError {
	return newAPIError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func conflict(code, message string) *APIError {
	return newAPIError(http.StatusConflict, code, message)
}

func serviceUnavailable(code, message string, internalErr error) *APIError {
	apiErr := newAPIError(http.StatusServiceUnavailable, code, message)
	apiErr.Err = internalErr
	return apiErr
}

func internalError(internalErr error) *APIError {
	apiErr := newAPIError(http.StatusInternalServerError, CodeInternalError,
		"Error interno del servidor")
	apiErr.Err = internalErr
	return apiErr
}
