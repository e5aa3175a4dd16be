package errs

import "strings"

// HTTPError is the error type carried to the global error handler and
// serialized to API clients.
//
// Only Message is part of the response body:
//
//	{ "error": "malformatted id" }
//
// Code and Status drive logging and the response status line.
type HTTPError struct {
	// Code is a machine-friendly error code (e.g. "BAD_REQUEST"), logged but not sent.
	Code string `json:"-"`

	// Message is the human-readable error sent as the "error" field.
	Message string `json:"error"`

	// Status is the HTTP status code of the response.
	Status int `json:"-"`

	// Bodiless marks errors answered with the status line only (404).
	Bodiless bool `json:"-"`
}

// Error makes *HTTPError satisfy the built-in error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError.
//
// It only checks the type, not Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
