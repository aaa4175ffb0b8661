// Package config reads the API settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds every setting of the API process
type Config struct {
	Port     string
	AppURL   string
	LogLevel zerolog.Level

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
	RedisURL      string

	GithubClientID     string
	GithubClientSecret string
	GithubOAuthURL     string
	GithubAPIURL       string
	GithubHTTPTimeout  time.Duration

	RandomUserAPIURL string
	PhotoBaseURL     string

	GraphQLMaxDepth       int
	GraphQLMaxParallelism int
	CORSAllowedOrigins    []string
}

// Load reads .env when present, then the environment
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:               env("PORT", "8080"),
		StoreDriver:        strings.ToLower(env("STORE_DRIVER", "mongo")),
		MongoURI:           env("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      env("MONGODB_DATABASE", "photo-share"),
		SQLitePath:         env("SQLITE_PATH", "photo-share.db"),
		RedisURL:           env("REDIS_URL", ""),
		GithubClientID:     env("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: env("GITHUB_CLIENT_SECRET", ""),
		GithubOAuthURL:     env("GITHUB_OAUTH_URL", "https://github.com"),
		GithubAPIURL:       env("GITHUB_API_URL", "https://api.github.com"),
		RandomUserAPIURL:   env("RANDOM_USER_API_URL", "https://randomuser.me"),
	}
	cfg.AppURL = strings.TrimRight(env("APP_URL", "http://localhost:"+cfg.Port), "/")
	cfg.PhotoBaseURL = strings.TrimRight(env("PHOTO_BASE_URL", cfg.AppURL), "/")

	level, err := zerolog.ParseLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	switch cfg.StoreDriver {
	case "mongo", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want mongo, sqlite or memory", cfg.StoreDriver)
	}

	if cfg.GithubHTTPTimeout, err = time.ParseDuration(env("GITHUB_HTTP_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid GITHUB_HTTP_TIMEOUT: %w", err)
	}
	if cfg.GraphQLMaxDepth, err = positiveInt(env("GRAPHQL_MAX_DEPTH", "10")); err != nil {
		return nil, fmt.Errorf("invalid GRAPHQL_MAX_DEPTH: %w", err)
	}
	if cfg.GraphQLMaxParallelism, err = positiveInt(env("GRAPHQL_MAX_PARALLELISM", "10")); err != nil {
		return nil, fmt.Errorf("invalid GRAPHQL_MAX_PARALLELISM: %w", err)
	}

	for _, origin := range strings.Split(env("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
