package application

import (
	"context"
	"fmt"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/metrics"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

// MaxFakeUsers bounds a single addFakeUsers call
const MaxFakeUsers = 5000

// AuthPayload is returned by the authentication mutations. Token is the
// provider-issued credential clients present on later requests.
type AuthPayload struct {
	Token string
	User  *domain.User
}

// UserService handles user queries and the authentication mutations
type UserService struct {
	linker    *IdentityLinker
	fakeUsers ports.FakeUserSource
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(
	linker *IdentityLinker,
	fakeUsers ports.FakeUserSource,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		linker:    linker,
		fakeUsers: fakeUsers,
		metrics:   m,
		logger:    logger,
	}
}

// GithubAuth links the provider identity behind code to a local user.
// A rejected exchange leaves the users collection untouched.
func (s *UserService) GithubAuth(ctx context.Context, ec *ExecContext, code string) (payload *AuthPayload, err error) {
	defer func() { s.metrics.ObserveMutation("githubAuth", err) }()

	identity, err := s.linker.Authorize(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := ec.Store.Users().Upsert(ctx, identity.User())
	if err != nil {
		s.logger.Error().Err(err).Str("githubLogin", identity.Login).Msg("Failed to save user")
		return nil, err
	}

	ec.publish(ctx, domain.NewUserAddedEvent(user))

	s.logger.Info().Str("githubLogin", user.GithubLogin).Msg("User authorized")

	return &AuthPayload{Token: identity.AccessToken, User: user}, nil
}

// FakeUserAuth returns the stored credential of an existing user
func (s *UserService) FakeUserAuth(ctx context.Context, ec *ExecContext, githubLogin string) (payload *AuthPayload, err error) {
	defer func() { s.metrics.ObserveMutation("fakeUserAuth", err) }()

	user, err := ec.Store.Users().FindByLogin(ctx, githubLogin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: cannot find user with githubLogin %q", domain.ErrNotFound, githubLogin)
	}

	return &AuthPayload{Token: user.GithubToken, User: user}, nil
}

// AddFakeUsers stores count generated users and publishes user-added for each
func (s *UserService) AddFakeUsers(ctx context.Context, ec *ExecContext, count int) (users []*domain.User, err error) {
	defer func() { s.metrics.ObserveMutation("addFakeUsers", err) }()

	if count < 1 || count > MaxFakeUsers {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", domain.ErrInvalidInput, MaxFakeUsers, count)
	}

	generated, err := s.fakeUsers.FetchUsers(ctx, count)
	if err != nil {
		s.logger.Error().Err(err).Int("count", count).Msg("Failed to fetch fake users")
		return nil, err
	}

	users = make([]*domain.User, 0, len(generated))
	for _, u := range generated {
		stored, upsertErr := ec.Store.Users().Upsert(ctx, u)
		if upsertErr != nil {
			s.logger.Error().Err(upsertErr).
				Str("githubLogin", u.GithubLogin).
				Int("stored", len(users)).
				Msg("Failed to save fake user")
			err = upsertErr
			break
		}
		users = append(users, stored)
	}

	// users stored before a failure stay stored, so they are announced either way
	for _, u := range users {
		ec.publish(ctx, domain.NewUserAddedEvent(u))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(users)).Msg("Added fake users")
	return users, nil
}

// Me returns the current user, or nil for anonymous requests
func (s *UserService) Me(ec *ExecContext) *domain.User {
	return ec.CurrentUser
}

// TotalUsers returns the number of stored users
func (s *UserService) TotalUsers(ctx context.Context, ec *ExecContext) (int, error) {
	return ec.Store.Users().Count(ctx)
}

// AllUsers returns every stored user
func (s *UserService) AllUsers(ctx context.Context, ec *ExecContext) ([]*domain.User, error) {
	return ec.Store.Users().FindAll(ctx)
}

// User returns the user with githubLogin; absence is an error
func (s *UserService) User(ctx context.Context, ec *ExecContext, githubLogin string) (*domain.User, error) {
	user, err := ec.Store.Users().FindByLogin(ctx, githubLogin)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: cannot find user with githubLogin %q", domain.ErrNotFound, githubLogin)
	}
	return user, nil
}
