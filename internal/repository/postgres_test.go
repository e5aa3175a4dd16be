package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/deppfellow/phonebook/internal/database"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/repository/storetest"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PHONEBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PHONEBOOK_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	require.NoError(t, database.Migrate(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	truncate := func(t *testing.T) {
		_, err := pool.Exec(ctx, `TRUNCATE persons RESTART IDENTITY`)
		require.NoError(t, err)
	}

	storetest.Run(t, storetest.Suite{
		New: func(t *testing.T, policy validation.Policy) repository.PersonStore {
			truncate(t)
			return repository.NewPostgresStore(pool, policy, nil)
		},
		Shared: func(t *testing.T, first, second validation.Policy) (repository.PersonStore, repository.PersonStore) {
			truncate(t)
			return repository.NewPostgresStore(pool, first, nil), repository.NewPostgresStore(pool, second, nil)
		},
		MissingID:   "999999",
		MalformedID: "abc",
	})
}
