// Package storetest holds the behaviour every repository.PersonStore
// implementation must share. Backend tests call Run with a factory.
package storetest

import (
	"context"
	"testing"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store with the given policy.
type Factory func(t *testing.T, policy validation.Policy) repository.PersonStore

// Suite describes the backend under test.
type Suite struct {
	New Factory

	// MissingID is well-formed for the backend but never assigned.
	MissingID string

	// MalformedID does not parse for the backend. Empty when every string
	// is a valid id (memory).
	MalformedID string

	// Shared, when set, returns two stores over one empty backing medium,
	// built in order with the given policies. Backends whose stores cannot
	// share a medium (memory) leave it nil.
	Shared func(t *testing.T, first, second validation.Policy) (repository.PersonStore, repository.PersonStore)
}

// Run executes the shared behaviour tests.
func Run(t *testing.T, suite Suite) {
	ctx := context.Background()
	unique := validation.Policy{UniqueNames: true}

	arto := model.PersonFields{Name: "Arto Hellas", Number: "040-123456"}
	ada := model.PersonFields{Name: "Ada Lovelace", Number: "39-44-5323523"}

	t.Run("empty store lists nothing", func(t *testing.T) {
		store := suite.New(t, unique)

		persons, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, persons)
		assert.Empty(t, persons)
	})

	t.Run("created person can be fetched", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, arto, created.Fields())

		fetched, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, fetched)
	})

	t.Run("ids are distinct", func(t *testing.T) {
		store := suite.New(t, unique)

		first, err := store.Create(ctx, arto)
		require.NoError(t, err)
		second, err := store.Create(ctx, ada)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("list reflects every mutation", func(t *testing.T) {
		store := suite.New(t, unique)

		first, err := store.Create(ctx, arto)
		require.NoError(t, err)
		second, err := store.Create(ctx, ada)
		require.NoError(t, err)

		persons, err := store.List(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []model.Person{*first, *second}, persons)

		require.NoError(t, store.Delete(ctx, first.ID))

		persons, err = store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Person{*second}, persons)
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		store := suite.New(t, unique)

		for _, fields := range []model.PersonFields{
			{Name: "", Number: "1"},
			{Name: "Arto", Number: ""},
			{Name: "   ", Number: "1"},
			{},
		} {
			_, err := store.Create(ctx, fields)
			assertReason(t, err, errs.ReasonMissingFields)
		}

		persons, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, persons)
	})

	t.Run("create rejects duplicate names", func(t *testing.T) {
		store := suite.New(t, unique)

		_, err := store.Create(ctx, arto)
		require.NoError(t, err)

		_, err = store.Create(ctx, model.PersonFields{Name: arto.Name, Number: "000"})
		assertReason(t, err, errs.ReasonDuplicateName)

		persons, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, persons, 1)
	})

	t.Run("duplicate names allowed without the policy", func(t *testing.T) {
		store := suite.New(t, validation.Policy{})

		_, err := store.Create(ctx, arto)
		require.NoError(t, err)
		_, err = store.Create(ctx, model.PersonFields{Name: arto.Name, Number: "000"})
		require.NoError(t, err)

		persons, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, persons, 2)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, model.PersonFields{Name: "  Zed  ", Number: " 040-1 "})
		require.NoError(t, err)
		assert.Equal(t, model.PersonFields{Name: "Zed", Number: "040-1"}, created.Fields())

		fetched, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Zed", fetched.Name)

		_, err = store.Create(ctx, model.PersonFields{Name: "Zed", Number: "040-2"})
		assertReason(t, err, errs.ReasonDuplicateName)

		other, err := store.Create(ctx, ada)
		require.NoError(t, err)
		_, err = store.Replace(ctx, other.ID, model.PersonFields{Name: "Zed\t", Number: "1"})
		assertReason(t, err, errs.ReasonDuplicateName)
	})

	t.Run("strict store sees names written without the policy", func(t *testing.T) {
		if suite.Shared == nil {
			t.Skip("stores do not share a backing medium")
		}
		strict, lenient := suite.Shared(t, unique, validation.Policy{})

		_, err := lenient.Create(ctx, arto)
		require.NoError(t, err)

		_, err = strict.Create(ctx, model.PersonFields{Name: arto.Name, Number: "000"})
		assertReason(t, err, errs.ReasonDuplicateName)

		persons, err := strict.List(ctx)
		require.NoError(t, err)
		assert.Len(t, persons, 1)
	})

	t.Run("rename without the policy frees the name for a strict store", func(t *testing.T) {
		if suite.Shared == nil {
			t.Skip("stores do not share a backing medium")
		}
		strict, lenient := suite.Shared(t, unique, validation.Policy{})

		created, err := lenient.Create(ctx, arto)
		require.NoError(t, err)
		_, err = lenient.Replace(ctx, created.ID, ada)
		require.NoError(t, err)

		_, err = strict.Create(ctx, arto)
		assert.NoError(t, err)

		_, err = strict.Create(ctx, ada)
		assertReason(t, err, errs.ReasonDuplicateName)
	})

	t.Run("get missing id", func(t *testing.T) {
		store := suite.New(t, unique)

		_, err := store.Get(ctx, suite.MissingID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("replace updates both fields", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)

		updated, err := store.Replace(ctx, created.ID, model.PersonFields{Name: "Arto Järvinen", Number: "040-999"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Arto Järvinen", updated.Name)
		assert.Equal(t, "040-999", updated.Number)

		fetched, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, fetched)
	})

	t.Run("replace keeping own name", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)

		updated, err := store.Replace(ctx, created.ID, model.PersonFields{Name: arto.Name, Number: "111"})
		require.NoError(t, err)
		assert.Equal(t, "111", updated.Number)
	})

	t.Run("replace frees the old name", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)
		_, err = store.Replace(ctx, created.ID, ada)
		require.NoError(t, err)

		_, err = store.Create(ctx, arto)
		assert.NoError(t, err)
	})

	t.Run("replace rejects another person's name", func(t *testing.T) {
		store := suite.New(t, unique)

		_, err := store.Create(ctx, arto)
		require.NoError(t, err)
		second, err := store.Create(ctx, ada)
		require.NoError(t, err)

		_, err = store.Replace(ctx, second.ID, model.PersonFields{Name: arto.Name, Number: "1"})
		assertReason(t, err, errs.ReasonDuplicateName)

		fetched, err := store.Get(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, ada, fetched.Fields())
	})

	t.Run("replace rejects missing fields", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)

		_, err = store.Replace(ctx, created.ID, model.PersonFields{Name: "Arto"})
		assertReason(t, err, errs.ReasonMissingFields)

		fetched, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, arto, fetched.Fields())
	})

	t.Run("replace missing id", func(t *testing.T) {
		store := suite.New(t, unique)

		_, err := store.Replace(ctx, suite.MissingID, arto)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, created.ID))
		require.NoError(t, store.Delete(ctx, created.ID))
		require.NoError(t, store.Delete(ctx, suite.MissingID))

		_, err = store.Get(ctx, created.ID)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("deleted name can be reused", func(t *testing.T) {
		store := suite.New(t, unique)

		created, err := store.Create(ctx, arto)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, created.ID))

		_, err = store.Create(ctx, arto)
		assert.NoError(t, err)
	})

	t.Run("malformed id", func(t *testing.T) {
		if suite.MalformedID == "" {
			t.Skip("every id is well-formed for this store")
		}
		store := suite.New(t, unique)

		_, err := store.Get(ctx, suite.MalformedID)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)

		_, err = store.Replace(ctx, suite.MalformedID, arto)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)

		err = store.Delete(ctx, suite.MalformedID)
		assert.ErrorIs(t, err, errs.ErrInvalidIdentifier)
	})

	t.Run("ping", func(t *testing.T) {
		store := suite.New(t, unique)
		assert.NoError(t, store.Ping(ctx))
	})
}

func assertReason(t *testing.T, err error, reason string) {
	t.Helper()

	var validationErr *errs.ValidationFailed
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, reason, validationErr.Reason)
}
