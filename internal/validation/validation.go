// Package validation contains the logic for validating
// request data and candidate persons.
//
// It uses the `validator` library to enforce the rules
// defined in struct tags and turns failures into errors
// the client can understand.
package validation

import (
	"strings"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/go-playground/validator/v10"
)

// validate is shared by every caller; validator caches struct metadata and
// is safe for concurrent use.
var validate = validator.New()

// Policy holds the validation rules that are configurable per deployment.
type Policy struct {
	// UniqueNames rejects a person whose name is already used by another
	// live record. Stores enforce it atomically with the write.
	UniqueNames bool
}

// CheckPerson applies the presence rules to a candidate person:
//  1. name must be non-empty
//  2. number must be non-empty
//
// Whitespace-only values count as empty. The failure is always
// errs.ReasonMissingFields, whichever field is missing.
func CheckPerson(fields model.PersonFields) error {
	if err := validate.Struct(NormalizePerson(fields)); err != nil {
		return errs.NewValidationFailed(errs.ReasonMissingFields)
	}

	return nil
}

// NormalizePerson trims surrounding whitespace from both fields. Stores
// write and compare the normalized values.
func NormalizePerson(fields model.PersonFields) model.PersonFields {
	return model.PersonFields{
		Name:   strings.TrimSpace(fields.Name),
		Number: strings.TrimSpace(fields.Number),
	}
}

// PreparePerson normalizes fields and applies CheckPerson to the result.
func PreparePerson(fields model.PersonFields) (model.PersonFields, error) {
	fields = NormalizePerson(fields)
	if err := CheckPerson(fields); err != nil {
		return model.PersonFields{}, err
	}
	return fields, nil
}

// DuplicateName is the failure returned when the UniqueNames policy rejects a candidate.
func DuplicateName() error {
	return errs.NewValidationFailed(errs.ReasonDuplicateName)
}

// Struct validates v against its `validate` struct tags.
func Struct(v any) error {
	return validate.Struct(v)
}
