package handler

import (
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/validation"
)

// ListPersonsRequest carries no input.
type ListPersonsRequest struct{}

func (r *ListPersonsRequest) Validate() error {
	return nil
}

// InfoRequest carries no input.
type InfoRequest struct{}

func (r *InfoRequest) Validate() error {
	return nil
}

// PersonIDRequest addresses a single person by path id.
type PersonIDRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *PersonIDRequest) Validate() error {
	return validation.Struct(r)
}

type CreatePersonRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

func (r *CreatePersonRequest) Fields() model.PersonFields {
	return model.PersonFields{Name: r.Name, Number: r.Number}
}

func (r *CreatePersonRequest) Validate() error {
	return validation.CheckPerson(r.Fields())
}

type UpdatePersonRequest struct {
	ID     string `param:"id" json:"-" validate:"required"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

func (r *UpdatePersonRequest) Fields() model.PersonFields {
	return model.PersonFields{Name: r.Name, Number: r.Number}
}

func (r *UpdatePersonRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validation.CheckPerson(r.Fields())
}
