// Package errs defines the error types of the phonebook service.
//
// It holds two groups of errors:
//   - the domain taxonomy returned by the record stores
//     (ErrNotFound, ErrInvalidIdentifier, ValidationFailed)
//   - HTTPError, the shape sent back to API clients.
//
// Classify is the single place where the first group is translated
// into the second.
package errs
