package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRedacted(t *testing.T) {
	user := &User{GithubLogin: "bob", Name: "Bob", GithubToken: "secret"}
	event := NewUserAddedEvent(user)

	redacted := event.Redacted()
	require.NotNil(t, redacted.User)
	assert.Equal(t, "bob", redacted.User.GithubLogin)
	assert.Equal(t, "Bob", redacted.User.Name)
	assert.Empty(t, redacted.User.GithubToken)
	assert.Equal(t, "secret", user.GithubToken)
	assert.Same(t, user, event.User)

	photo := &Photo{ID: "1", Name: "Sunset"}
	assert.Same(t, photo, NewPhotoAddedEvent(photo).Redacted().Photo)
}
