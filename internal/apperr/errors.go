package apperr

import "net/http"

// Error is a domain error carrying the HTTP status the glue layer should
// translate it into and a stable machine-readable code.
type Error struct {
	Message string
	Status  int
	Code    string
}

func (e *Error) Error() string { return e.Message }

func NotFound(message string) *Error {
	return &Error{Message: message, Status: http.StatusNotFound, Code: "not_found"}
}

func Validation(message string) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest, Code: "validation_error"}
}

func Forbidden(message string) *Error {
	return &Error{Message: message, Status: http.StatusForbidden, Code: "forbidden"}
}

// Internal marks an invariant failure: a repository call that a preceding
// existence check said should succeed reported absence. Never retried.
func Internal(message string) *Error {
	return &Error{Message: message, Status: http.StatusInternalServerError, Code: "internal_error"}
}
