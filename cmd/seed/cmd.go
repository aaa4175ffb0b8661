package main

import (
	"context"
	"fmt"
	"time"

	"photo-share-api/internal/application"
	"photo-share-api/internal/config"
	"photo-share-api/internal/infrastructure/repository"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newRootCmd builds the seed command with flags defaulting to cfg
func newRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	opts := repository.Options{
		Driver:        cfg.StoreDriver,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
	}
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the sample photo-share data set",
		Long: `Upserts the sample users (mHattrup, gPlake, sSchmidt) and, when the photos
collection is empty, inserts the sample photos and their tags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			result, err := seed(ctx, opts, logger)
			if err != nil {
				logger.Error().Err(err).Msg("Seeding failed")
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d photos, %d tags\n", result.Users, result.Photos, result.Tags)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Driver, "store", opts.Driver, "store driver: mongo, sqlite or memory")
	flags.StringVar(&opts.MongoURI, "mongo-uri", opts.MongoURI, "MongoDB connection string")
	flags.StringVar(&opts.MongoDatabase, "mongo-database", opts.MongoDatabase, "MongoDB database name")
	flags.StringVar(&opts.SQLitePath, "sqlite-path", opts.SQLitePath, "SQLite database file")
	flags.DurationVar(&timeout, "timeout", time.Minute, "overall deadline for seeding")

	return cmd
}

func seed(ctx context.Context, opts repository.Options, logger zerolog.Logger) (*application.SeedResult, error) {
	store, closeStore, err := repository.Open(ctx, opts, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to close store")
		}
	}()

	return application.Seed(ctx, store, logger)
}
