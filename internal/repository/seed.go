package repository

import "github.com/deppfellow/phonebook/internal/model"

// PersonSeed is an entry preloaded into a fresh memory store.
type PersonSeed = model.PersonFields

// DefaultSeed returns the sample entries used for local development.
func DefaultSeed() []PersonSeed {
	return []PersonSeed{
		{Name: "Arto Hellas", Number: "040-123456"},
		{Name: "Ada Lovelace", Number: "39-44-5323523"},
		{Name: "Dan Abramov", Number: "12-43-234345"},
		{Name: "Mary Poppendieck", Number: "39-23-6423122"},
	}
}
