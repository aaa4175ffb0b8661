// Package randomuser fetches throwaway user profiles from a randomuser.me compatible API.
package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"
)

// DefaultBaseURL is the public random user service
const DefaultBaseURL = "https://randomuser.me"

// Client fetches random user profiles
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.FakeUserSource = (*Client)(nil)

// NewClient creates a client for baseURL (DefaultBaseURL when empty)
func NewClient(baseURL string, timeout time.Duration) *Client {
	return NewClientWithOptions(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithOptions creates a client using httpClient
func NewClientWithOptions(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type response struct {
	Results []struct {
		Login struct {
			Username string `json:"username"`
			SHA1     string `json:"sha1"`
		} `json:"login"`
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Picture struct {
			Thumbnail string `json:"thumbnail"`
		} `json:"picture"`
	} `json:"results"`
}

// FetchUsers returns count generated users; the login hash doubles as their token
func (c *Client) FetchUsers(ctx context.Context, count int) ([]*domain.User, error) {
	endpoint := c.baseURL + "/api/?results=" + strconv.Itoa(count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch random users: %w", domain.ErrExternalServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: failed to fetch random users: status %d, body: %s",
			domain.ErrExternalServiceUnreachable, resp.StatusCode, string(bodyBytes))
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode random users: %w", domain.ErrExternalServiceUnreachable, err)
	}

	users := make([]*domain.User, 0, len(body.Results))
	for _, r := range body.Results {
		if r.Login.Username == "" {
			continue
		}
		users = append(users, &domain.User{
			GithubLogin: r.Login.Username,
			Name:        strings.TrimSpace(r.Name.First + " " + r.Name.Last),
			Avatar:      r.Picture.Thumbnail,
			GithubToken: r.Login.SHA1,
		})
	}

	return users, nil
}
