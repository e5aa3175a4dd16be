package repository

import (
	"context"
	"strconv"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/sqlerr"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// personNameLock is the advisory lock key serializing name-unique writes.
const personNameLock = 7_311_843_200

// PostgresStore keeps persons in the persons table. Ids are bigserial
// values rendered as decimal strings.
type PostgresStore struct {
	pool   *pgxpool.Pool
	policy validation.Policy
	schema *schemaGuard
}

// NewPostgresStore returns a store on pool. migrate, when not nil, creates
// the persons table; it runs before the first operation and is retried
// until it succeeds.
func NewPostgresStore(pool *pgxpool.Pool, policy validation.Policy, migrate func(ctx context.Context) error) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		policy: policy,
		schema: newSchemaGuard("persons table", migrate),
	}
}

// Prepare runs the pending migration now instead of on first use.
func (s *PostgresStore) Prepare(ctx context.Context) error {
	return s.schema.Ready(ctx)
}

type personRow struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Number string `db:"number"`
}

func (r personRow) toModel() *model.Person {
	return &model.Person{
		ID:     strconv.FormatInt(r.ID, 10),
		Name:   r.Name,
		Number: r.Number,
	}
}

func parseSerialID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errs.ErrInvalidIdentifier
	}
	return n, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]model.Person, error) {
	if err := s.schema.Ready(ctx); err != nil {
		return nil, err
	}

	stmt := `
		SELECT
			id,
			name,
			number
		FROM
			persons
		ORDER BY
			id
	`

	rows, err := s.pool.Query(ctx, stmt)
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), "listing persons")
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[personRow])
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), "collecting persons")
	}

	persons := make([]model.Person, 0, len(collected))
	for _, row := range collected {
		persons = append(persons, *row.toModel())
	}
	return persons, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.Person, error) {
	serial, err := parseSerialID(id)
	if err != nil {
		return nil, err
	}

	if err := s.schema.Ready(ctx); err != nil {
		return nil, err
	}

	stmt := `
		SELECT
			id,
			name,
			number
		FROM
			persons
		WHERE
			id = @id
	`

	rows, err := s.pool.Query(ctx, stmt, pgx.NamedArgs{"id": serial})
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), "getting person")
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[personRow])
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), "getting person")
	}
	return row.toModel(), nil
}

func (s *PostgresStore) Create(ctx context.Context, fields model.PersonFields) (*model.Person, error) {
	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	if err := s.schema.Ready(ctx); err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{"name": fields.Name, "number": fields.Number}

	if !s.policy.UniqueNames {
		stmt := `
			INSERT INTO
				persons (name, number)
			VALUES
				(@name, @number)
			RETURNING
				id, name, number
		`
		return s.queryOne(ctx, s.pool, stmt, args, "creating person")
	}

	var person *model.Person
	err = s.withNameLock(ctx, func(tx pgx.Tx) error {
		stmt := `
			INSERT INTO
				persons (name, number)
			SELECT
				@name::TEXT, @number::TEXT
			WHERE
				NOT EXISTS (SELECT 1 FROM persons WHERE name = @name)
			RETURNING
				id, name, number
		`

		var err error
		person, err = s.queryOne(ctx, tx, stmt, args, "creating person")
		if errors.Is(err, errs.ErrNotFound) {
			return validation.DuplicateName()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PostgresStore) Replace(ctx context.Context, id string, fields model.PersonFields) (*model.Person, error) {
	serial, err := parseSerialID(id)
	if err != nil {
		return nil, err
	}

	if err := s.schema.Ready(ctx); err != nil {
		return nil, err
	}

	fields, err = validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{"id": serial, "name": fields.Name, "number": fields.Number}

	if !s.policy.UniqueNames {
		stmt := `
			UPDATE persons
			SET
				name = @name,
				number = @number,
				updated_at = CURRENT_TIMESTAMP
			WHERE
				id = @id
			RETURNING
				id, name, number
		`
		return s.queryOne(ctx, s.pool, stmt, args, "replacing person")
	}

	var person *model.Person
	err = s.withNameLock(ctx, func(tx pgx.Tx) error {
		stmt := `
			UPDATE persons
			SET
				name = @name,
				number = @number,
				updated_at = CURRENT_TIMESTAMP
			WHERE
				id = @id
				AND NOT EXISTS (SELECT 1 FROM persons WHERE name = @name AND id <> @id)
			RETURNING
				id, name, number
		`

		var err error
		person, err = s.queryOne(ctx, tx, stmt, args, "replacing person")
		if !errors.Is(err, errs.ErrNotFound) {
			return err
		}

		// No row updated: either the id is gone or the name is taken.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM persons WHERE id = @id)`, args).Scan(&exists); err != nil {
			return errors.WithMessage(sqlerr.HandleError(err), "checking person")
		}
		if exists {
			return validation.DuplicateName()
		}
		return errs.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	serial, err := parseSerialID(id)
	if err != nil {
		return err
	}

	if err := s.schema.Ready(ctx); err != nil {
		return err
	}

	stmt := `
		DELETE FROM persons
		WHERE
			id = @id
	`

	if _, err := s.pool.Exec(ctx, stmt, pgx.NamedArgs{"id": serial}); err != nil {
		return errors.WithMessage(sqlerr.HandleError(err), "deleting person")
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PostgresStore) queryOne(ctx context.Context, q querier, stmt string, args pgx.NamedArgs, op string) (*model.Person, error) {
	rows, err := q.Query(ctx, stmt, args)
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), op)
	}

	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[personRow])
	if err != nil {
		return nil, errors.WithMessage(sqlerr.HandleError(err), op)
	}
	return row.toModel(), nil
}

// withNameLock runs fn in a transaction holding an advisory lock, so the
// name check and the write it guards cannot interleave with another writer.
func (s *PostgresStore) withNameLock(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(personNameLock)); err != nil {
			return errors.WithMessage(sqlerr.HandleError(err), "locking person names")
		}
		return fn(tx)
	})
}
