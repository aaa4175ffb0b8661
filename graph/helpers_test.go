package graph

import (
	"context"
	"fmt"
	"testing"

	"photo-share-api/internal/application"
	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/pubsub"
	"photo-share-api/internal/infrastructure/repository/memory"
	"photo-share-api/internal/ports"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reject string
	login  string
	name   string
	avatar string
	token  string
}

func (p *stubProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	if p.reject != "" {
		return "", &domain.ExternalAuthRejectedError{Message: p.reject}
	}
	return p.token, nil
}

func (p *stubProvider) FetchProfile(ctx context.Context, token string) (*ports.ExternalProfile, error) {
	return &ports.ExternalProfile{Login: p.login, Name: p.name, AvatarURL: p.avatar}, nil
}

type stubUserSource struct{}

func (stubUserSource) FetchUsers(ctx context.Context, count int) ([]*domain.User, error) {
	all := []*domain.User{
		{GithubLogin: "bluebird123", Name: "Ada Lovelace", GithubToken: "sha-1"},
		{GithubLogin: "greenfox77", Name: "Alan Turing", GithubToken: "sha-2"},
	}
	if count < len(all) {
		return all[:count], nil
	}
	return all, nil
}

type fixture struct {
	schema   *graphql.Schema
	store    *memory.Store
	broker   *pubsub.Broker
	contexts *application.ContextBuilder
}

// newFixture builds the schema over a memory store loaded with the sample data
func newFixture(t *testing.T, provider ports.IdentityProvider) *fixture {
	t.Helper()

	store := memory.New()
	_, err := application.Seed(context.Background(), store, zerolog.Nop())
	require.NoError(t, err)

	f := newFixtureOver(t, store, provider)
	f.store = store
	return f
}

// newFixtureOver builds the schema over any store; f.store stays nil
func newFixtureOver(t *testing.T, store ports.Store, provider ports.IdentityProvider) *fixture {
	t.Helper()
	logger := zerolog.Nop()

	if provider == nil {
		provider = &stubProvider{reject: "not configured"}
	}

	broker := pubsub.NewBroker(logger, nil)
	contexts := application.NewContextBuilder(store, broker, logger)
	resolver := NewResolver(
		application.NewPhotoService(nil, logger),
		application.NewUserService(application.NewIdentityLinker(provider, nil, logger), stubUserSource{}, nil, logger),
		application.NewRelationResolver("http://localhost:8080"),
		contexts,
		broker,
		logger,
	)

	schema, err := NewSchema(resolver, Options{MaxDepth: 10, MaxParallelism: 4})
	require.NoError(t, err)

	return &fixture{schema: schema, broker: broker, contexts: contexts}
}

// unavailableStore serves users from a working store and fails every photo
// and tag operation
type unavailableStore struct {
	ports.Store
}

var errStoreDown = fmt.Errorf("%w: failed to reach store: connection refused", domain.ErrStoreUnavailable)

func (s unavailableStore) Photos() ports.PhotoRepository { return unavailablePhotos{} }

type unavailablePhotos struct{}

func (unavailablePhotos) Count(context.Context) (int, error) {
	return 0, errStoreDown
}
func (unavailablePhotos) FindAll(context.Context) ([]*domain.Photo, error) {
	return nil, errStoreDown
}
func (unavailablePhotos) FindByID(context.Context, string) (*domain.Photo, error) {
	return nil, errStoreDown
}
func (unavailablePhotos) FindByOwner(context.Context, string) ([]*domain.Photo, error) {
	return nil, errStoreDown
}
func (unavailablePhotos) Insert(context.Context, *domain.Photo) (string, error) {
	return "", errStoreDown
}

// as returns a context whose current user is login
func (f *fixture) as(t *testing.T, login string) context.Context {
	t.Helper()
	user, err := f.store.Users().FindByLogin(context.Background(), login)
	require.NoError(t, err)
	require.NotNil(t, user, "no user %s", login)

	ec := f.contexts.Anonymous()
	ec.CurrentUser = user
	return application.WithExecContext(context.Background(), ec)
}

func errorCodeOf(t *testing.T, resp *graphql.Response) string {
	t.Helper()
	require.NotEmpty(t, resp.Errors)
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}
