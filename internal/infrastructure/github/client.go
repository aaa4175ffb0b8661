package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

// Default endpoints of the public GitHub service
const (
	DefaultOAuthURL = "https://github.com"
	DefaultAPIURL   = "https://api.github.com"
	DefaultTimeout  = 10 * time.Second
)

// Config holds the OAuth application credentials and endpoints
type Config struct {
	ClientID     string
	ClientSecret string
	OAuthURL     string
	APIURL       string
	Timeout      time.Duration
}

// Client talks to GitHub's OAuth and REST endpoints
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ ports.IdentityProvider = (*Client)(nil)

// NewClient creates a GitHub client with its own HTTP client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return NewClientWithOptions(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewClientWithOptions creates a GitHub client using httpClient
func NewClientWithOptions(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Client {
	if cfg.OAuthURL == "" {
		cfg.OAuthURL = DefaultOAuthURL
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.OAuthURL = strings.TrimRight(cfg.OAuthURL, "/")
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// AuthorizeURL returns the page the browser is sent to for the first leg of the flow
func (c *Client) AuthorizeURL(state string) string {
	values := url.Values{}
	values.Set("client_id", c.cfg.ClientID)
	values.Set("scope", "user")
	if state != "" {
		values.Set("state", state)
	}
	return c.cfg.OAuthURL + "/login/oauth/authorize?" + values.Encode()
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (r *tokenResponse) rejection() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.ErrorDescription != "":
		return r.ErrorDescription
	default:
		return r.Error
	}
}

// ExchangeCode trades an authorization code for an access token
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", &domain.ExternalAuthRejectedError{Message: "authorization code is required"}
	}

	body, err := json.Marshal(tokenRequest{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		Code:         code,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OAuthURL+"/login/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", unreachable("exchange code", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", unreachable("read token response", err)
	}

	var tokenResp tokenResponse
	decodeErr := json.Unmarshal(raw, &tokenResp)

	if decodeErr == nil && tokenResp.AccessToken != "" && resp.StatusCode < 300 {
		return tokenResp.AccessToken, nil
	}

	if decodeErr == nil {
		if msg := tokenResp.rejection(); msg != "" {
			c.logger.Warn().
				Int("status", resp.StatusCode).
				Str("reason", msg).
				Msg("GitHub rejected authorization code")
			return "", &domain.ExternalAuthRejectedError{Message: msg}
		}
	}

	if resp.StatusCode >= 300 {
		return "", unreachable("exchange code", fmt.Errorf("status %d, body: %s", resp.StatusCode, string(raw)))
	}
	if decodeErr != nil {
		return "", unreachable("decode token response", decodeErr)
	}
	return "", &domain.ExternalAuthRejectedError{Message: "no access token returned"}
}

// FetchProfile returns the profile of the user owning accessToken
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*ports.ExternalProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, unreachable("fetch profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, unreachable("fetch profile", fmt.Errorf("status %d, body: %s", resp.StatusCode, string(bodyBytes)))
	}

	var profile ports.ExternalProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, unreachable("decode profile", err)
	}
	if profile.Login == "" {
		return nil, unreachable("fetch profile", fmt.Errorf("profile has no login"))
	}

	return &profile, nil
}

func unreachable(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrExternalServiceUnreachable, op, err)
}
