// Package repository handles all interactions with the backing medium.
//
// It defines the PersonStore contract and one implementation per
// supported medium (memory, PostgreSQL, MongoDB, Redis), abstracting
// storage details away from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/phonebook/internal/model"
)

// PersonStore is the record store for phonebook entries.
//
// Get, Replace and Delete return errs.ErrInvalidIdentifier when the backend
// needs a structured id and id does not parse. Create and Replace return
// *errs.ValidationFailed when the candidate is rejected. Delete of an
// absent id succeeds.
type PersonStore interface {
	// List returns every stored person, never nil.
	List(ctx context.Context) ([]model.Person, error)

	// Get returns the person with id, or errs.ErrNotFound.
	Get(ctx context.Context, id string) (*model.Person, error)

	// Create validates fields and stores them under a fresh id.
	Create(ctx context.Context, fields model.PersonFields) (*model.Person, error)

	// Replace overwrites name and number of the person with id, or returns errs.ErrNotFound.
	Replace(ctx context.Context, id string, fields model.PersonFields) (*model.Person, error)

	// Delete removes the person with id if present.
	Delete(ctx context.Context, id string) error

	// Ping reports whether the backing medium is reachable.
	Ping(ctx context.Context) error
}
