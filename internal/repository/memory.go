package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/deppfellow/phonebook/internal/errs"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/validation"
)

// MemoryStore keeps persons in a slice guarded by a mutex.
// Ids are sequential decimal strings; any unknown string is simply not found.
type MemoryStore struct {
	mu      sync.RWMutex
	persons []model.Person
	nextID  int64
	policy  validation.Policy
}

// NewMemoryStore returns a store holding seed, in order.
func NewMemoryStore(policy validation.Policy, seed ...PersonSeed) *MemoryStore {
	s := &MemoryStore{
		persons: make([]model.Person, 0, len(seed)),
		policy:  policy,
	}
	for _, fields := range seed {
		s.insert(fields)
	}
	return s
}

func (s *MemoryStore) List(_ context.Context) ([]model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	persons := make([]model.Person, len(s.persons))
	copy(persons, s.persons)
	return persons, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errs.ErrNotFound
	}
	person := s.persons[i]
	return &person, nil
}

func (s *MemoryStore) Create(_ context.Context, fields model.PersonFields) (*model.Person, error) {
	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.policy.UniqueNames && s.nameTaken(fields.Name, "") {
		return nil, validation.DuplicateName()
	}

	person := s.insert(fields)
	return &person, nil
}

func (s *MemoryStore) Replace(_ context.Context, id string, fields model.PersonFields) (*model.Person, error) {
	fields, err := validation.PreparePerson(fields)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, errs.ErrNotFound
	}

	if s.policy.UniqueNames && s.nameTaken(fields.Name, id) {
		return nil, validation.DuplicateName()
	}

	s.persons[i].Name = fields.Name
	s.persons[i].Number = fields.Number
	person := s.persons[i]
	return &person, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.persons = append(s.persons[:i], s.persons[i+1:]...)
	}
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// insert must be called with mu held (or before the store is shared).
func (s *MemoryStore) insert(fields model.PersonFields) model.Person {
	s.nextID++
	person := model.Person{
		ID:     strconv.FormatInt(s.nextID, 10),
		Name:   fields.Name,
		Number: fields.Number,
	}
	s.persons = append(s.persons, person)
	return person
}

func (s *MemoryStore) indexOf(id string) int {
	for i := range s.persons {
		if s.persons[i].ID == id {
			return i
		}
	}
	return -1
}

// nameTaken reports whether a person other than exceptID uses name.
func (s *MemoryStore) nameTaken(name, exceptID string) bool {
	for i := range s.persons {
		if s.persons[i].Name == name && s.persons[i].ID != exceptID {
			return true
		}
	}
	return false
}
