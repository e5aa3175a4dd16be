package errs

import "errors"

var (
	codeMalformattedID  = "MALFORMATTED_ID"
	codeValidationError = "VALIDATION_FAILED"
)

// Classify maps a failure from the record store to the HTTP outcome sent to
// the client:
//
//   - ErrInvalidIdentifier -> 400 {"error": "malformatted id"}
//   - *ValidationFailed    -> 400 {"error": <reason>}
//   - ErrNotFound          -> 404, no body
//   - *HTTPError           -> unchanged
//   - anything else        -> fixed 500
//
// It performs no I/O and returns nil for a nil error.
func Classify(err error) *HTTPError {
	if err == nil {
		return nil
	}

	var httpErr *HTTPError
	var validationErr *ValidationFailed

	switch {
	case errors.As(err, &httpErr):
		return httpErr

	case errors.Is(err, ErrInvalidIdentifier):
		return NewBadRequestError(MessageMalformattedID, &codeMalformattedID)

	case errors.As(err, &validationErr):
		return NewBadRequestError(validationErr.Reason, &codeValidationError)

	case errors.Is(err, ErrNotFound):
		return NewNotFoundError(err.Error())

	default:
		return NewInternalServerError()
	}
}
