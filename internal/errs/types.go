package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code is optional; when nil the code defaults to "BAD_REQUEST".
func NewBadRequestError(message string, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:    formattedCode,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Not found responses carry no body, the message only shows up in logs.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message:  message,
		Status:   http.StatusNotFound,
		Bodiless: true,
	}
}

// NewInternalServerError creates the fixed 500 response.
//
// The message is generic; the real cause is logged by the error handler,
// never sent to the client.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	}
}

// NewHTTPError creates an HTTPError for an arbitrary status, using the
// standard status text as the message when message is empty.
func NewHTTPError(status int, message string) *HTTPError {
	if message == "" {
		message = http.StatusText(status)
	}

	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message:  message,
		Status:   status,
		Bodiless: status == http.StatusNotFound,
	}
}
