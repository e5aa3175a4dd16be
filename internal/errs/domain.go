package errs

import "errors"

// Failure messages shown to API clients.
const (
	MessageMalformattedID = "malformatted id"
	ReasonMissingFields   = "person requires name and number"
	ReasonDuplicateName   = "person with this name already exists"
)

var (
	// ErrNotFound is returned by a record store when no person has the given id.
	ErrNotFound = errors.New("person not found")

	// ErrInvalidIdentifier is returned by stores that need a structured id
	// (ObjectID, integer) when the id does not parse. It is distinct from ErrNotFound.
	ErrInvalidIdentifier = errors.New(MessageMalformattedID)
)

// ValidationFailed is returned when a candidate person is rejected by the
// validation rule. Reason is sent to the client unchanged.
type ValidationFailed struct {
	Reason string
}

func (e *ValidationFailed) Error() string {
	return e.Reason
}

// NewValidationFailed returns a ValidationFailed with the given reason.
func NewValidationFailed(reason string) *ValidationFailed {
	return &ValidationFailed{Reason: reason}
}

// IsValidationFailed reports whether err is, or wraps, a *ValidationFailed.
func IsValidationFailed(err error) bool {
	var validationErr *ValidationFailed
	return errors.As(err, &validationErr)
}
