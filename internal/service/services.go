// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler and performs
// exactly one record store call per operation.
package service

import (
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
)

type Services struct {
	Person *PersonService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Person: NewPersonService(s, repos.Persons),
	}, nil
}
