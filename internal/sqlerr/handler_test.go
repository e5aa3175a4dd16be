package sqlerr

import (
	"errors"
	"testing"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, HandleError(nil))
	})

	t.Run("no rows is not found", func(t *testing.T) {
		err := HandleError(pkgerrors.Wrap(pgx.ErrNoRows, "selecting person"))
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("unique violation is duplicate name", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{Code: "23505", TableName: "persons", ConstraintName: "persons_name_key"})
		var validationErr *errs.ValidationFailed
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, errs.ReasonDuplicateName, validationErr.Reason)
	})

	t.Run("not null violation is missing fields", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{Code: "23502", TableName: "persons", ColumnName: "number"})
		var validationErr *errs.ValidationFailed
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, errs.ReasonMissingFields, validationErr.Reason)
	})

	t.Run("bad integer is invalid identifier", func(t *testing.T) {
		err := HandleError(&pgconn.PgError{Code: "22P02"})
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		assert.Same(t, errs.ErrNotFound, HandleError(errs.ErrNotFound))
	})

	t.Run("unknown pg error keeps the driver error", func(t *testing.T) {
		src := &pgconn.PgError{Code: "57014", Severity: "ERROR", Message: "canceling statement"}
		err := HandleError(src)
		assert.Equal(t, Other, ErrCode(err))

		var pgerr *pgconn.PgError
		require.True(t, errors.As(err, &pgerr))
		assert.Same(t, src, pgerr)
	})
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, Other, MapCode("XX000"))
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("bogus"))
}

func TestErrorMessage(t *testing.T) {
	err := ConvertPgError(&pgconn.PgError{
		Code:       "23502",
		Severity:   "ERROR",
		Message:    "null value in column",
		TableName:  "persons",
		ColumnName: "number",
	})
	assert.Equal(t, "ERROR Person Number: null value in column (SQLSTATE 23502)", err.Error())
}
