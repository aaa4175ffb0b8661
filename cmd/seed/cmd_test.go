package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"photo-share-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommandSQLite(t *testing.T) {
	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "seed.db")
	run := func() string {
		var out bytes.Buffer
		cmd := newRootCmd(cfg, zerolog.Nop())
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--store", "sqlite", "--sqlite-path", path})
		require.NoError(t, cmd.ExecuteContext(context.Background()))
		return out.String()
	}

	assert.Equal(t, "seeded 3 users, 3 photos, 4 tags\n", run())
	// photos are only loaded into an empty store
	assert.Equal(t, "seeded 3 users, 0 photos, 0 tags\n", run())
}

func TestSeedCommandRejectsUnknownStore(t *testing.T) {
	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)

	cmd := newRootCmd(cfg, zerolog.Nop())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--store", "cassandra"})
	assert.ErrorContains(t, cmd.ExecuteContext(context.Background()), "unknown store driver")
}
