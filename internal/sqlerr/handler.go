package sqlerr

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the mapped Code for err, or Other when err does not wrap an *Error.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError converts a raw pgconn.PgError into an *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// describe names the violated entity for log output, e.g. "Person Name".
func describe(e *Error) string {
	entity := strings.TrimSuffix(e.TableName, "s")
	if entity == "" {
		entity = "record"
	}
	if e.ColumnName != "" {
		entity += " " + e.ColumnName
	}
	return humanizeText(entity)
}

// humanizeText converts snake_case into Title Case.
//
//	"persons name" -> "Persons Name"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// HandleError converts a low-level database error into the phonebook's error taxonomy.
//
//   - nil or an already classified error: returned unchanged
//   - ErrNoRows: errs.ErrNotFound
//   - unique violation: duplicate-name validation failure
//   - not-null or check violation: missing-fields validation failure
//   - invalid text representation or out of range: errs.ErrInvalidIdentifier
//   - anything else: the normalized *Error (or err) with a stack attached
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) ||
		errs.IsValidationFailed(err) ||
		errors.Is(err, errs.ErrNotFound) ||
		errors.Is(err, errs.ErrInvalidIdentifier) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)

		switch sqlErr.Code {
		case UniqueViolation:
			return errs.NewValidationFailed(errs.ReasonDuplicateName)
		case NotNullViolation, CheckViolation:
			return errs.NewValidationFailed(errs.ReasonMissingFields)
		case InvalidTextRepresentation, NumericValueOutOfRange:
			return errs.ErrInvalidIdentifier
		default:
			return pkgerrors.WithStack(sqlErr)
		}
	}

	return pkgerrors.WithStack(err)
}
