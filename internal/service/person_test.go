package service

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/model"
	"github.com/deppfellow/phonebook/internal/repository"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *PersonService {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{Config: config.DefaultConfig(), Logger: &logger}
	store := repository.NewMemoryStore(validation.Policy{UniqueNames: true}, repository.DefaultSeed()...)

	return NewPersonService(s, store)
}

func TestPersonServiceInfo(t *testing.T) {
	ctx := context.Background()
	ps := newTestService(t)

	fixed := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	ps.SetClock(func() time.Time { return fixed })

	info, err := ps.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, info.Count)
	assert.Equal(t, fixed, info.GeneratedAt)

	_, err = ps.Create(ctx, model.PersonFields{Name: "Grace Hopper", Number: "555"})
	require.NoError(t, err)

	info, err = ps.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, info.Count)
}

func TestPersonServiceCreateValidates(t *testing.T) {
	ps := newTestService(t)

	_, err := ps.Create(context.Background(), model.PersonFields{Name: "Arto Hellas", Number: "1"})
	assert.Error(t, err)
}
