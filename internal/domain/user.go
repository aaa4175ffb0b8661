package domain

// User represents a photo-share account linked to a GitHub identity
type User struct {
	GithubLogin string `json:"githubLogin"`           // Stable external login, unique and immutable
	Name        string `json:"name,omitempty"`        // Display name (optional)
	Avatar      string `json:"avatar,omitempty"`      // Avatar URL (optional)
	GithubToken string `json:"githubToken,omitempty"` // Access token presented as the bearer credential
}
