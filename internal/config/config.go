// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageBackend selects the repo.Store implementation. Defaults to "memory".
	StorageBackend string

	// DatabaseURL is the Postgres connection string. Required for the postgres backend.
	DatabaseURL string

	// RedisURL is a redis:// URL. Required for the redis backend.
	RedisURL string
	// RedisKeyPrefix namespaces every key. Defaults to "travel_timeline".
	RedisKeyPrefix string

	// MongoURL is a mongodb:// URL. Required for the mongo backend.
	MongoURL string
	// MongoDatabase defaults to "travel_timeline".
	MongoDatabase string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Variables may also come from the given dotenv files (".env" when none are
// named); real environment variables take precedence, and a missing file is
// not an error.
// Returns an error listing any required variables that are not set.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	e, err := readEnvFiles(envFiles)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:           e.get("PORT", "8080"),
		LogLevel:       e.get("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(e.get("CORS_ORIGINS", "http://localhost:5173")),
		StorageBackend: strings.ToLower(e.get("STORAGE_BACKEND", BackendMemory)),
		DatabaseURL:    e.get("DATABASE_URL", ""),
		RedisURL:       e.get("REDIS_URL", ""),
		RedisKeyPrefix: e.get("REDIS_KEY_PREFIX", "travel_timeline"),
		MongoURL:       e.get("MONGO_URL", ""),
		MongoDatabase:  e.get("MONGO_DATABASE", "travel_timeline"),
	}

	cfg.MaxBodyBytes, err = strconv.ParseInt(e.get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer")
	}

	var missing []string
	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			missing = append(missing, "REDIS_URL")
		}
	case BackendMongo:
		if cfg.MongoURL == "" {
			missing = append(missing, "MONGO_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_BACKEND %q (want memory, postgres, redis or mongo)", cfg.StorageBackend)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// env holds values read from dotenv files. The process environment is
// consulted first.
type env map[string]string

// get returns the value of the variable named by key, or fallback if it is
// not set or is empty.
func (e env) get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := e[key]; v != "" {
		return v
	}
	return fallback
}

// readEnvFiles merges the named dotenv files; later files win.
func readEnvFiles(files []string) (env, error) {
	out := env{}
	for _, f := range files {
		vals, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range vals {
			out[k] = v
		}
	}
	return out, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
