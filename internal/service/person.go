package service

import (
	"context"
	"time"

	"github.com/deppfellow/phonebook/internal/middleware"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
)

type PersonService struct {
	server *server.Server
	store  repository.PersonStore
	now    func() time.Time
}

func NewPersonService(s *server.Server, store repository.PersonStore) *PersonService {
	return &PersonService{
		server: s,
		store:  store,
		now:    time.Now,
	}
}

// SetClock replaces the clock used by Info.
func (ps *PersonService) SetClock(now func() time.Time) {
	ps.now = now
}

func (ps *PersonService) List(ctx context.Context) ([]model.Person, error) {
	return ps.store.List(ctx)
}

func (ps *PersonService) Get(ctx context.Context, id string) (*model.Person, error) {
	return ps.store.Get(ctx, id)
}

func (ps *PersonService) Create(ctx context.Context, fields model.PersonFields) (*model.Person, error) {
	person, err := ps.store.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	middleware.LoggerFromContext(ctx, ps.server.Logger).Info().
		Str("person_id", person.ID).
		Msg("person created")

	return person, nil
}

func (ps *PersonService) Replace(ctx context.Context, id string, fields model.PersonFields) (*model.Person, error) {
	return ps.store.Replace(ctx, id, fields)
}

func (ps *PersonService) Delete(ctx context.Context, id string) error {
	return ps.store.Delete(ctx, id)
}

// Info counts the stored persons and stamps the summary with the current time.
func (ps *PersonService) Info(ctx context.Context) (*model.PhonebookInfo, error) {
	persons, err := ps.store.List(ctx)
	if err != nil {
		return nil, err
	}

	return &model.PhonebookInfo{
		Count:       len(persons),
		GeneratedAt: ps.now(),
	}, nil
}

// Ping checks the backing medium.
func (ps *PersonService) Ping(ctx context.Context) error {
	return ps.store.Ping(ctx)
}
