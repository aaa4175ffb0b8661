package repository

import (
	"context"
	"fmt"
	"time"

	"photo-share-api/internal/infrastructure/repository/memory"
	"photo-share-api/internal/infrastructure/repository/sqlite"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Supported store drivers
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Options selects and configures a store backend
type Options struct {
	Driver        string
	MongoURI      string
	MongoDatabase string
	SQLitePath    string
}

// CloseFunc releases the resources held by an opened store
type CloseFunc func(ctx context.Context) error

// Open connects the configured backend and returns it with its close function
func Open(ctx context.Context, opts Options, logger zerolog.Logger) (ports.Store, CloseFunc, error) {
	switch opts.Driver {
	case DriverMongo, "":
		return openMongo(ctx, opts, logger)

	case DriverSQLite:
		store, err := sqlite.Open(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", opts.SQLitePath).Msg("Using SQLite store")
		return store, func(context.Context) error { return store.Close() }, nil

	case DriverMemory:
		logger.Warn().Msg("Using in-memory store, data is lost on restart")
		return memory.New(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

func openMongo(ctx context.Context, opts Options, logger zerolog.Logger) (ports.Store, CloseFunc, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(opts.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	store := NewMongoStore(client.Database(opts.MongoDatabase))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info().Str("database", opts.MongoDatabase).Msg("Connected to MongoDB")
	return store, client.Disconnect, nil
}
