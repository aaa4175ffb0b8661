package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-share-api/graph"
	"photo-share-api/internal/application"
	"photo-share-api/internal/config"
	"photo-share-api/internal/infrastructure/github"
	"photo-share-api/internal/infrastructure/metrics"
	"photo-share-api/internal/infrastructure/pubsub"
	"photo-share-api/internal/infrastructure/randomuser"
	"photo-share-api/internal/infrastructure/repository"
	"photo-share-api/internal/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}
	logger = logger.Level(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("API server stopped")
	}
	logger.Info().Msg("API server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	store, closeStore, err := repository.Open(ctx, repository.Options{
		Driver:        cfg.StoreDriver,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
		SQLitePath:    cfg.SQLitePath,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to close store")
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	g, gctx := errgroup.WithContext(ctx)

	// Events stay in-process unless REDIS_URL fans them out across instances
	broker := pubsub.NewBroker(logger, m)
	var bus ports.EventBus = broker
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		client := redis.NewClient(redisOpts)
		defer client.Close()

		relay := pubsub.NewRedisRelay(client, broker, logger)
		bus = relay
		g.Go(func() error { return relay.Run(gctx) })
	}

	githubClient := github.NewClient(github.Config{
		ClientID:     cfg.GithubClientID,
		ClientSecret: cfg.GithubClientSecret,
		OAuthURL:     cfg.GithubOAuthURL,
		APIURL:       cfg.GithubAPIURL,
		Timeout:      cfg.GithubHTTPTimeout,
	}, logger)
	if cfg.GithubClientID == "" {
		logger.Warn().Msg("GITHUB_CLIENT_ID is not set, githubAuth will be rejected by the provider")
	}

	contexts := application.NewContextBuilder(store, bus, logger)
	resolver := graph.NewResolver(
		application.NewPhotoService(m, logger),
		application.NewUserService(
			application.NewIdentityLinker(githubClient, m, logger),
			randomuser.NewClient(cfg.RandomUserAPIURL, cfg.GithubHTTPTimeout),
			m,
			logger,
		),
		application.NewRelationResolver(cfg.PhotoBaseURL),
		contexts,
		bus,
		logger,
	)

	schema, err := graph.NewSchema(resolver, graph.Options{
		MaxDepth:       cfg.GraphQLMaxDepth,
		MaxParallelism: cfg.GraphQLMaxParallelism,
	})
	if err != nil {
		return err
	}

	router, err := newRouter(routerConfig{
		Schema:      schema,
		Contexts:    contexts,
		OAuth:       githubClient,
		Gatherer:    registry,
		PubSub:      broker,
		CORSOrigins: cfg.CORSAllowedOrigins,
		SwaggerFile: "./docs/swagger.json",
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Starting API server")
		logger.Info().Msg("GraphQL Playground available at " + cfg.AppURL + "/")
		logger.Info().Msg("Swagger documentation available at " + cfg.AppURL + "/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down API server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
