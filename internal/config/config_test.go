package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.AppURL)
	assert.Equal(t, "http://localhost:8080", cfg.PhotoBaseURL)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "photo-share", cfg.MongoDatabase)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "https://github.com", cfg.GithubOAuthURL)
	assert.Equal(t, "https://api.github.com", cfg.GithubAPIURL)
	assert.Equal(t, 10*time.Second, cfg.GithubHTTPTimeout)
	assert.Equal(t, 10, cfg.GraphQLMaxDepth)
	assert.Equal(t, 10, cfg.GraphQLMaxParallelism)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":                 "4000",
		"APP_URL":              "https://photos.example.com/",
		"PHOTO_BASE_URL":       "https://cdn.example.com/",
		"LOG_LEVEL":            "debug",
		"STORE_DRIVER":         "SQLite",
		"SQLITE_PATH":          "/tmp/p.db",
		"REDIS_URL":            "redis://localhost:6379/0",
		"GITHUB_HTTP_TIMEOUT":  "3s",
		"GRAPHQL_MAX_DEPTH":    "7",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
	}))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "https://photos.example.com", cfg.AppURL)
	assert.Equal(t, "https://cdn.example.com", cfg.PhotoBaseURL)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, "/tmp/p.db", cfg.SQLitePath)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 3*time.Second, cfg.GithubHTTPTimeout)
	assert.Equal(t, 7, cfg.GraphQLMaxDepth)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"store driver": {"STORE_DRIVER": "postgres"},
		"log level":    {"LOG_LEVEL": "loud"},
		"timeout":      {"GITHUB_HTTP_TIMEOUT": "soon"},
		"max depth":    {"GRAPHQL_MAX_DEPTH": "0"},
		"parallelism":  {"GRAPHQL_MAX_PARALLELISM": "many"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}
