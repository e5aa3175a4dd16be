package repository

import (
	"context"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// PersonsCollection holds one document per person.
	PersonsCollection = "persons"

	nameIndex = "persons_name_unique"
)

// MongoStore keeps persons in the persons collection. Ids are the hex form
// of the document ObjectID.
type MongoStore struct {
	collection *mongo.Collection
	policy     validation.Policy

	// indexes is nil when the UniqueNames policy is off.
	indexes *schemaGuard
}

type personDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	Number string             `bson:"number"`
}

func (d personDocument) toModel() *model.Person {
	return &model.Person{
		ID:     d.ID.Hex(),
		Name:   d.Name,
		Number: d.Number,
	}
}

// NewMongoStore returns a store on db's persons collection.
//
// With the UniqueNames policy on, the unique name index is created here.
// A failure is logged and retried before every write; writes fail until
// the index exists. With the policy off the index is left as it is, so a
// lenient client never weakens a strict one sharing the collection.
func NewMongoStore(ctx context.Context, db *mongo.Database, policy validation.Policy, logger *zerolog.Logger) *MongoStore {
	s := &MongoStore{
		collection: db.Collection(PersonsCollection),
		policy:     policy,
	}

	if policy.UniqueNames {
		s.indexes = newSchemaGuard("person name index", s.EnsureIndexes)
		if err := s.indexes.Ready(ctx); err != nil {
			logger.Error().Err(err).Str("collection", PersonsCollection).Msg("failed to sync person indexes, retrying on write")
		}
	}

	return s
}

// EnsureIndexes creates the unique name index. It fails with a duplicate
// key error while the collection holds two persons with the same name.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(nameIndex),
	})
	return errors.Wrap(err, "creating name index")
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, errs.ErrInvalidIdentifier
	}
	return oid, nil
}

func (s *MongoStore) List(ctx context.Context) ([]model.Person, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "listing persons")
	}

	var docs []personDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding persons")
	}

	persons := make([]model.Person, 0, len(docs))
	for _, doc := range docs {
		persons = append(persons, *doc.toModel())
	}
	return persons, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*model.Person, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var doc personDocument
	err = s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, errors.Wrap(err, "getting person")
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Create(ctx context.Context, fields model.PersonFields) (*model.Person, error) {
	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	if err := s.indexes.Ready(ctx); err != nil {
		return nil, err
	}

	doc := personDocument{
		ID:     primitive.NewObjectID(),
		Name:   fields.Name,
		Number: fields.Number,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, validation.DuplicateName()
		}
		return nil, errors.Wrap(err, "creating person")
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Replace(ctx context.Context, id string, fields model.PersonFields) (*model.Person, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	fields, err = validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	if err := s.indexes.Ready(ctx); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"name": fields.Name, "number": fields.Number}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc personDocument
	err = s.collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, errs.ErrNotFound
		case mongo.IsDuplicateKeyError(err):
			return nil, validation.DuplicateName()
		default:
			return nil, errors.Wrap(err, "replacing person")
		}
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "deleting person")
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}
