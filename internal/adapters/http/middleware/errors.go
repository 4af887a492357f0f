package middleware

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error codes shared by the middleware and the handlers.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// TimestampLayout matches JavaScript's Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrorBody is the JSON envelope of every error response.
type ErrorBody struct {
	StatusCode int    `json:"statusCode"`
	ErrorCode  string `json:"errorCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
}

// Now is the clock used for error timestamps.
var Now = time.Now

// WriteError writes the error envelope with the given status.
// POST: Content-Type is application/json; body path is the request path
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		StatusCode: status,
		ErrorCode:  code,
		Message:    message,
		Timestamp:  Now().UTC().Format(TimestampLayout),
		Path:       r.URL.Path,
	})
}
