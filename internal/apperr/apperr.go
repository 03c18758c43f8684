// Package apperr defines the error taxonomy that maps onto HTTP responses.
// Conversational failures in the transport chat are deliberately NOT part of
// this taxonomy: they are successful replies with a clarify status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an HTTP-mappable application error.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Validation reports field-level validation failures.
func Validation(msg string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg, Details: details}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

// Forbidden reports that the caller is not a member of the target group.
func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// Conflict reports a uniqueness violation, such as a taken email.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// NotFound reports a missing or inaccessible resource.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// UnsupportedMedia reports a file upload with a disallowed content type.
func UnsupportedMedia(msg string) *Error {
	return &Error{Status: http.StatusUnsupportedMediaType, Message: msg}
}

// Unprocessable reports upstream data that cannot be used.
func Unprocessable(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: msg}
}

// Config reports missing service configuration (API URL/key unset).
func Config(msg string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg}
}

// Upstream reports a non-2xx response from an external API, carrying the
// upstream HTTP status.
func Upstream(msg string, status int) *Error {
	if status < 400 {
		status = http.StatusBadGateway
	}
	return &Error{Status: status, Message: msg}
}

// HTTPStatus resolves the response status for err, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
