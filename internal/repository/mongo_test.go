package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/repository/storetest"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PHONEBOOK_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("PHONEBOOK_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	newDatabase := func(t *testing.T) *mongo.Database {
		db := client.Database("phonebook_test_" + uuid.NewString()[:8])
		t.Cleanup(func() { _ = db.Drop(ctx) })
		return db
	}

	storetest.Run(t, storetest.Suite{
		New: func(t *testing.T, policy validation.Policy) repository.PersonStore {
			return repository.NewMongoStore(ctx, newDatabase(t), policy, &logger)
		},
		Shared: func(t *testing.T, first, second validation.Policy) (repository.PersonStore, repository.PersonStore) {
			db := newDatabase(t)
			return repository.NewMongoStore(ctx, db, first, &logger), repository.NewMongoStore(ctx, db, second, &logger)
		},
		MissingID:   primitive.NewObjectID().Hex(),
		MalformedID: "5",
	})
}
