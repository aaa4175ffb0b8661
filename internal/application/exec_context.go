package application

import (
	"context"
	"fmt"
	"strings"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

// ExecContext is assembled once per request or subscription connection and
// passed explicitly into every core operation
type ExecContext struct {
	Store       ports.Store
	CurrentUser *domain.User
	Publisher   ports.EventPublisher
}

type execContextKey struct{}

// WithExecContext attaches ec to ctx
func WithExecContext(ctx context.Context, ec *ExecContext) context.Context {
	return context.WithValue(ctx, execContextKey{}, ec)
}

// ExecContextFrom returns the ExecContext attached to ctx, or nil
func ExecContextFrom(ctx context.Context) *ExecContext {
	ec, _ := ctx.Value(execContextKey{}).(*ExecContext)
	return ec
}

// BearerToken extracts the credential from an Authorization value.
// "Bearer <token>" and "token <token>" are accepted as well as a bare token.
func BearerToken(authorization string) string {
	authorization = strings.TrimSpace(authorization)
	scheme, rest, found := strings.Cut(authorization, " ")
	if found && (strings.EqualFold(scheme, "bearer") || strings.EqualFold(scheme, "token")) {
		return strings.TrimSpace(rest)
	}
	return authorization
}

// ContextBuilder resolves the current user of a request against the users collection
type ContextBuilder struct {
	store     ports.Store
	publisher ports.EventPublisher
	logger    zerolog.Logger
}

// NewContextBuilder creates a builder sharing store and publisher across requests
func NewContextBuilder(store ports.Store, publisher ports.EventPublisher, logger zerolog.Logger) *ContextBuilder {
	return &ContextBuilder{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Build returns the ExecContext for a request carrying authorization.
// Unknown or missing credentials yield an anonymous context.
func (b *ContextBuilder) Build(ctx context.Context, authorization string) (*ExecContext, error) {
	ec := &ExecContext{
		Store:     b.store,
		Publisher: b.publisher,
	}

	token := BearerToken(authorization)
	if token == "" {
		return ec, nil
	}

	user, err := b.store.Users().FindByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	if user == nil {
		b.logger.Debug().Msg("Credential did not match any user")
		return ec, nil
	}

	ec.CurrentUser = user
	return ec, nil
}

// Anonymous returns an ExecContext with no current user
func (b *ContextBuilder) Anonymous() *ExecContext {
	return &ExecContext{Store: b.store, Publisher: b.publisher}
}

func (ec *ExecContext) publish(ctx context.Context, event *domain.Event) {
	if ec.Publisher == nil {
		return
	}
	ec.Publisher.Publish(ctx, event)
}
