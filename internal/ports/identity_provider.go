package ports

import (
	"context"

	"photo-share-api/internal/domain"
)

// ExternalProfile is the subset of the provider's user profile we keep
type ExternalProfile struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// IdentityProvider defines the two remote calls of the OAuth exchange
type IdentityProvider interface {
	// ExchangeCode trades a single-use authorization code for an access token
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile returns the profile of the user owning accessToken
	FetchProfile(ctx context.Context, accessToken string) (*ExternalProfile, error)
}

// FakeUserSource produces throwaway user records for development
type FakeUserSource interface {
	FetchUsers(ctx context.Context, count int) ([]*domain.User, error)
}
