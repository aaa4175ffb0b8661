package graph

import (
	"context"

	"photo-share-api/internal/application"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

// Resolver is the root resolver for queries, mutations and subscriptions.
// It serves as dependency injection for the graph layer.
type Resolver struct {
	photos    *application.PhotoService
	users     *application.UserService
	relations *application.RelationResolver
	contexts  *application.ContextBuilder
	events    ports.EventSubscriber
	logger    zerolog.Logger
}

// NewResolver creates a new GraphQL resolver
func NewResolver(
	photos *application.PhotoService,
	users *application.UserService,
	relations *application.RelationResolver,
	contexts *application.ContextBuilder,
	events ports.EventSubscriber,
	logger zerolog.Logger,
) *Resolver {
	return &Resolver{
		photos:    photos,
		users:     users,
		relations: relations,
		contexts:  contexts,
		events:    events,
		logger:    logger,
	}
}

// execContext returns the request's ExecContext, or an anonymous one when the
// request did not pass through the HTTP middleware
func (r *Resolver) execContext(ctx context.Context) *application.ExecContext {
	if ec := application.ExecContextFrom(ctx); ec != nil {
		return ec
	}
	return r.contexts.Anonymous()
}
