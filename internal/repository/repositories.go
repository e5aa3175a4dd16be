package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/database"
	"github.com/deppfellow/phonebook/internal/server"
	"github.com/deppfellow/phonebook/internal/validation"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Persons PersonStore
}

// NewRepositories builds the PersonStore selected by s.Config.Store.Backend
// on top of the connection the server opened for it.
func NewRepositories(ctx context.Context, s *server.Server) (*Repositories, error) {
	cfg := s.Config
	policy := validation.Policy{UniqueNames: cfg.Store.UniqueNames}

	var persons PersonStore

	switch cfg.Store.Backend {
	case config.BackendMemory:
		var seed []PersonSeed
		if cfg.Store.Seed {
			seed = DefaultSeed()
		}
		persons = NewMemoryStore(policy, seed...)

	case config.BackendPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("%s store requires a database pool", cfg.Store.Backend)
		}
		dsn := database.BuildDSN(cfg.Database)
		store := NewPostgresStore(s.DB.Pool, policy, func(ctx context.Context) error {
			return database.Migrate(ctx, s.Logger, dsn)
		})

		prepareCtx, cancel := context.WithTimeout(ctx, database.DatabasePingTimeout*time.Second)
		defer cancel()
		if err := store.Prepare(prepareCtx); err != nil {
			s.Logger.Error().Err(err).Msg("failed to migrate database schema, retrying on first request")
		}
		persons = store

	case config.BackendMongo:
		if s.Mongo == nil {
			return nil, fmt.Errorf("%s store requires a mongo client", cfg.Store.Backend)
		}
		persons = NewMongoStore(ctx, s.Mongo.Database(cfg.Mongo.Database), policy, s.Logger)

	case config.BackendRedis:
		if s.Redis == nil {
			return nil, fmt.Errorf("%s store requires a redis client", cfg.Store.Backend)
		}
		persons = NewRedisStore(s.Redis, cfg.Redis.KeyPrefix, policy)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	s.Logger.Info().
		Str("store", cfg.Store.Backend).
		Bool("unique_names", policy.UniqueNames).
		Msg("record store ready")

	return &Repositories{Persons: persons}, nil
}
