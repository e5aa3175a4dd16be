// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the connection backing the selected record store (postgres pool, mongo client or redis client)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/deppfellow/phonebook/internal/database"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	loggerPkg "github.com/deppfellow/phonebook/internal/logger"
)

// connectTimeout bounds each start-up ping.
const connectTimeout = 5 * time.Second

// Server is the application container that holds shared resources.
//
// Only the connection for cfg.Store.Backend is opened; the others stay nil.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService holds the New Relic application, which may be nil.
	LoggerService *loggerPkg.LoggerService

	DB *database.Database

	Mongo *mongo.Client

	Redis *redis.Client

	httpServer *http.Server
}

// New constructs a Server and opens the connection required by the configured store.
//
// An unreachable backing medium does not stop start-up; it is logged and
// reported by /status. Malformed connection settings are returned as errors.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	ctx := context.Background()

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db

	case config.BackendMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo.URI, logger)
		if err != nil {
			return nil, err
		}
		server.Mongo = client

	case config.BackendRedis:
		server.Redis = ConnectRedis(ctx, cfg.Redis, logger, loggerService)
	}

	return server, nil
}

// ConnectMongo creates a client for uri and pings it.
func ConnectMongo(ctx context.Context, uri string, logger *zerolog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to MongoDB, continuing without a live connection")
	} else {
		logger.Info().Msg("connected to MongoDB")
	}

	return client, nil
}

// ConnectRedis creates a Redis client with New Relic hooks when the agent is running.
// Redis connections are lazy, the ping only reports reachability.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) *redis.Client {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without a live connection")
	} else {
		logger.Info().Msg("connected to Redis")
	}

	return redisClient
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Backend).
		Msg("server running on port " + s.Config.Server.Port)

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server, waiting for in-flight requests until
// ctx expires, then closes whichever store connection is open.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	if s.Mongo != nil {
		if err := s.Mongo.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis connection: %w", err)
		}
	}

	return nil
}
