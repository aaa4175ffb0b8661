package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/metrics"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

// AuthorizedIdentity is the merged result of the two provider calls
type AuthorizedIdentity struct {
	Login       string
	Name        string
	Avatar      string
	AccessToken string
}

// User maps the identity onto a local user record
func (a *AuthorizedIdentity) User() *domain.User {
	return &domain.User{
		GithubLogin: a.Login,
		Name:        a.Name,
		Avatar:      a.Avatar,
		GithubToken: a.AccessToken,
	}
}

// IdentityLinker runs the OAuth code exchange followed by the profile fetch.
// It never writes to the store.
type IdentityLinker struct {
	provider ports.IdentityProvider
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewIdentityLinker creates a new identity linker
func NewIdentityLinker(provider ports.IdentityProvider, m *metrics.Metrics, logger zerolog.Logger) *IdentityLinker {
	return &IdentityLinker{
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// Authorize exchanges code for an access token and fetches the matching profile.
// Nothing is retried: codes are single use.
func (l *IdentityLinker) Authorize(ctx context.Context, code string) (*AuthorizedIdentity, error) {
	start := time.Now()
	token, err := l.provider.ExchangeCode(ctx, code)
	l.metrics.ObserveProviderCall("exchange", start, err)
	if err != nil {
		var rejected *domain.ExternalAuthRejectedError
		if errors.As(err, &rejected) {
			return nil, rejected
		}
		l.logger.Error().Err(err).Msg("Failed to exchange authorization code")
		return nil, err
	}

	start = time.Now()
	profile, err := l.provider.FetchProfile(ctx, token)
	l.metrics.ObserveProviderCall("profile", start, err)
	if err != nil {
		l.logger.Error().Err(err).Msg("Failed to fetch provider profile")
		return nil, err
	}
	if profile == nil || profile.Login == "" {
		return nil, fmt.Errorf("%w: provider returned an empty profile", domain.ErrExternalServiceUnreachable)
	}

	return &AuthorizedIdentity{
		Login:       profile.Login,
		Name:        profile.Name,
		Avatar:      profile.AvatarURL,
		AccessToken: token,
	}, nil
}
