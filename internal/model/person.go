// Package model holds the domain types shared by the repository, service
// and handler layers.
package model

import "time"

// Person is a single phonebook entry.
//
// ID is assigned by the store on creation and never changes afterwards.
// Its format depends on the backing store, callers treat it as opaque.
type Person struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// PersonFields are the mutable fields of a Person, used as the candidate
// for create and replace operations.
type PersonFields struct {
	Name   string `json:"name" validate:"required"`
	Number string `json:"number" validate:"required"`
}

// Fields returns the mutable part of p.
func (p Person) Fields() PersonFields {
	return PersonFields{Name: p.Name, Number: p.Number}
}

// PhonebookInfo is the summary rendered by the info route.
type PhonebookInfo struct {
	Count       int
	GeneratedAt time.Time
}
