// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), loads them into
// structured Go types, applies defaults and validates that the values
// required by the selected record store are present.
//
// Env vars use the PHONEBOOK_ prefix. Nested keys are separated by a dot
// or a double underscore:
//
//	PHONEBOOK_SERVER.PORT=3001
//	PHONEBOOK_STORE__BACKEND=mongo
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PHONEBOOK_"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Mongo         MongoConfig          `koanf:"mongo"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// StaticDir holds the prebuilt front-end bundle. Skipped when it does not exist.
	StaticDir string `koanf:"static_dir"`
}

// StoreConfig selects the record store backend and its validation policy.
type StoreConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory mongo postgres redis"`

	// UniqueNames rejects a second person with an existing name.
	UniqueNames bool `koanf:"unique_names"`

	// Seed preloads the memory backend with sample entries.
	Seed bool `koanf:"seed"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// URL, when set, takes precedence over the individual parts.
type DatabaseConfig struct {
	URL             string `koanf:"url"`
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxConns        int32  `koanf:"max_conns"`
	MinConns        int32  `koanf:"min_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// MongoConfig contains the MongoDB connection string and database name.
type MongoConfig struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address   string `koanf:"address"`
	Password  string `koanf:"password"`
	DB        int    `koanf:"db"`
	KeyPrefix string `koanf:"key_prefix"`
}

// DefaultConfig returns the configuration used for every key not set in the environment.
func DefaultConfig() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "3001",
			ReadTimeout:        10,
			WriteTimeout:       10,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			StaticDir:          "build",
		},
		Store: StoreConfig{
			Backend:     BackendMemory,
			UniqueNames: true,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxConns:        10,
			MinConns:        1,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 300,
		},
		Mongo: MongoConfig{
			Database: "phonebook",
		},
		Redis: RedisConfig{
			Address:   "localhost:6379",
			KeyPrefix: "phonebook",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps PHONEBOOK_SERVER__PORT and PHONEBOOK_SERVER.PORT to "server.port".
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// envValue splits comma-separated lists for slice-typed keys.
func envValue(s, v string) (string, interface{}) {
	key := envKey(s)
	if strings.HasSuffix(key, "cors_allowed_origins") {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, v
}

// LoadConfig loads configuration from environment variables, unmarshals it
// over DefaultConfig, validates it and returns the result.
//
// PORT and MONGODB_URI are honoured as fallbacks when the prefixed keys
// are not set.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := DefaultConfig()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && !k.Exists("server.port") {
		mainConfig.Server.Port = port
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" && !k.Exists("mongo.uri") {
		mainConfig.Mongo.URI = uri
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.validateBackend(); err != nil {
		return nil, err
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	mainConfig.Observability.ServiceName = "phonebook"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// validateBackend checks that the connection settings of the selected store are present.
func (c *Config) validateBackend() error {
	switch c.Store.Backend {
	case BackendMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required for the %s store", c.Store.Backend)
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo.database is required for the %s store", c.Store.Backend)
		}
	case BackendPostgres:
		if c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "") {
			return fmt.Errorf("database.url or database.host, database.name and database.user are required for the %s store", c.Store.Backend)
		}
	case BackendRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("redis.address is required for the %s store", c.Store.Backend)
		}
	}
	return nil
}
