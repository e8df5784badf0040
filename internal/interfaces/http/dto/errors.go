package dto

import "net/http"

// Error codes surfaced by the API. Domain error codes pass through
// unchanged so upstream integrations can branch on them.
const (
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeNotFound:     http.StatusNotFound,

	// unknown references -> 404
	"NOT_FOUND":           http.StatusNotFound,
	"TASK_TYPE_NOT_FOUND": http.StatusNotFound,
	"TASK_NOT_FOUND":      http.StatusNotFound,

	// bad input -> 400
	"INVALID_FILTER":    http.StatusBadRequest,
	"MALFORMED_CONTENT": http.StatusBadRequest,

	// claim races -> 409
	"ALREADY_IN_PROGRESS": http.StatusConflict,

	// business rule violations -> 422
	"VALIDATION_FAILED":     http.StatusUnprocessableEntity,
	"INVALID_QUANTITY":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_QUANTITY": http.StatusUnprocessableEntity,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unrecognized codes fail closed as 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
