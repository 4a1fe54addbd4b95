package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code. Services
// return these so handlers never have to match on message text.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the error kinds the services actually produce.
var (
	NotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	Forbidden    = func(msg string) *HTTPError { return NewHTTPError(http.StatusForbidden, msg) }
	Conflict     = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
	Invalid      = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	Unauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
)

// StatusOf maps any error to an HTTP status. Unknown errors are internal.
func StatusOf(err error) int {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, code int) bool {
	return StatusOf(err) == code
}
