package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// flakyStep fails its first failures calls and succeeds afterwards.
type flakyStep struct {
	failures int
	calls    int
}

func (f *flakyStep) ensure(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestSchemaGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("retries until the step succeeds", func(t *testing.T) {
		step := &flakyStep{failures: 2}
		guard := newSchemaGuard("persons table", step.ensure)

		assert.ErrorContains(t, guard.Ready(ctx), "preparing persons table")
		assert.Error(t, guard.Ready(ctx))
		require.NoError(t, guard.Ready(ctx))
		require.NoError(t, guard.Ready(ctx))

		assert.Equal(t, 3, step.calls)
	})

	t.Run("nil guard and missing step are ready", func(t *testing.T) {
		var guard *schemaGuard
		assert.NoError(t, guard.Ready(ctx))
		assert.NoError(t, newSchemaGuard("nothing", nil).Ready(ctx))
	})
}

func TestPostgresStoreMigratesLazily(t *testing.T) {
	ctx := context.Background()
	step := &flakyStep{failures: 1}
	store := NewPostgresStore(nil, validation.Policy{UniqueNames: true}, step.ensure)

	// The pool is never reached while the schema is missing.
	_, err := store.List(ctx)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, errs.Classify(err).Status)

	require.NoError(t, store.Prepare(ctx))
	require.NoError(t, store.Prepare(ctx))
	assert.Equal(t, 2, step.calls)
}

func unreachableMongo(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("phonebook_test")
}

func TestMongoStoreIndexSync(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()
	arto := model.PersonFields{Name: "Arto Hellas", Number: "040-123456"}

	t.Run("writes fail while the name index is missing", func(t *testing.T) {
		store := NewMongoStore(ctx, unreachableMongo(t), validation.Policy{UniqueNames: true}, &logger)

		step := &flakyStep{failures: 1}
		store.indexes = newSchemaGuard("person name index", step.ensure)

		_, err := store.Create(ctx, arto)
		require.Error(t, err)
		assert.False(t, errs.IsValidationFailed(err))
		assert.Equal(t, http.StatusInternalServerError, errs.Classify(err).Status)

		_, err = store.Replace(ctx, "5f1d7f1e2b3c4d5e6f708192", arto)
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrNotFound)

		assert.Equal(t, 2, step.calls)
		require.NoError(t, store.indexes.Ready(ctx))
		assert.Equal(t, 2, step.calls)
	})

	t.Run("validation still comes first", func(t *testing.T) {
		store := NewMongoStore(ctx, unreachableMongo(t), validation.Policy{UniqueNames: true}, &logger)

		_, err := store.Create(ctx, model.PersonFields{Name: "Arto"})
		var validationErr *errs.ValidationFailed
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, errs.ReasonMissingFields, validationErr.Reason)
	})

	t.Run("lenient store leaves the index alone", func(t *testing.T) {
		store := NewMongoStore(ctx, unreachableMongo(t), validation.Policy{}, &logger)
		assert.Nil(t, store.indexes)
	})
}
