// Package storetest holds the behaviour every ports.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes the contract against stores produced by newStore; each subtest gets a fresh store
func Run(t *testing.T, newStore func(t *testing.T) ports.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("user upsert", func(t *testing.T) { testUserUpsert(t, newStore(t)) })
	t.Run("photos", func(t *testing.T) { testPhotos(t, newStore(t)) })
	t.Run("photo lookups", func(t *testing.T) { testPhotoLookups(t, newStore(t)) })
	t.Run("tags", func(t *testing.T) { testTags(t, newStore(t)) })
}

func testUsers(t *testing.T, store ports.Store) {
	ctx := context.Background()
	users := store.Users()

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	missing, err := users.FindByLogin(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	for _, u := range []*domain.User{
		{GithubLogin: "mHattrup", Name: "Mike Hattrup", GithubToken: "t-mike"},
		{GithubLogin: "gPlake", Name: "Glen Plake", Avatar: "https://example.com/g.png", GithubToken: "t-glen"},
		{GithubLogin: "sSchmidt", Name: "Scot Schmidt", GithubToken: "t-scot"},
	} {
		_, err := users.Upsert(ctx, u)
		require.NoError(t, err)
	}

	count, err = users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	all, err := users.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "mHattrup", all[0].GithubLogin)
	assert.Equal(t, "gPlake", all[1].GithubLogin)
	assert.Equal(t, "sSchmidt", all[2].GithubLogin)

	glen, err := users.FindByLogin(ctx, "gPlake")
	require.NoError(t, err)
	require.NotNil(t, glen)
	assert.Equal(t, "Glen Plake", glen.Name)
	assert.Equal(t, "https://example.com/g.png", glen.Avatar)

	byToken, err := users.FindByToken(ctx, "t-scot")
	require.NoError(t, err)
	require.NotNil(t, byToken)
	assert.Equal(t, "sSchmidt", byToken.GithubLogin)

	noToken, err := users.FindByToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, noToken)

	unknownToken, err := users.FindByToken(ctx, "t-unknown")
	require.NoError(t, err)
	assert.Nil(t, unknownToken)
}

func testUserUpsert(t *testing.T, store ports.Store) {
	ctx := context.Background()
	users := store.Users()

	first, err := users.Upsert(ctx, &domain.User{GithubLogin: "alice", Name: "Alice", Avatar: "a1", GithubToken: "tok-1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", first.GithubToken)

	second, err := users.Upsert(ctx, &domain.User{GithubLogin: "alice", Name: "Alice Liddell", Avatar: "a2", GithubToken: "tok-2"})
	require.NoError(t, err)
	assert.Equal(t, "alice", second.GithubLogin)
	assert.Equal(t, "Alice Liddell", second.Name)
	assert.Equal(t, "a2", second.Avatar)
	assert.Equal(t, "tok-2", second.GithubToken)

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stale, err := users.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Nil(t, stale)

	stored, err := users.FindByLogin(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok-2", stored.GithubToken)
}

func testPhotos(t *testing.T, store ports.Store) {
	ctx := context.Background()
	photos := store.Photos()
	created := time.Date(2018, 4, 15, 19, 9, 57, 308000000, time.UTC)
	description := "25 laps on gunbarrel today"
	empty := ""

	count, err := photos.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	id1, err := photos.Insert(ctx, &domain.Photo{
		Name:        "Gunbarrel 25",
		Description: &description,
		Category:    domain.CategoryLandscape,
		GithubUser:  "sSchmidt",
		Created:     created,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	id2, err := photos.Insert(ctx, &domain.Photo{Name: "Selfie", Description: &empty, Category: domain.CategorySelfie, GithubUser: "gPlake", Created: created})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	count, err = photos.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := photos.FindByID(ctx, id1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id1, got.ID)
	assert.Equal(t, "Gunbarrel 25", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, description, *got.Description)
	assert.Equal(t, domain.CategoryLandscape, got.Category)
	assert.Equal(t, "sSchmidt", got.GithubUser)
	assert.True(t, created.Equal(got.Created), "created %s != %s", got.Created, created)

	got, err = photos.FindByID(ctx, id2)
	require.NoError(t, err)
	require.NotNil(t, got.Description, "empty description must not read back as unset")
	assert.Equal(t, "", *got.Description)

	all, err := photos.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id1, all[0].ID)
	assert.Equal(t, id2, all[1].ID)
}

func testPhotoLookups(t *testing.T, store ports.Store) {
	ctx := context.Background()
	photos := store.Photos()

	for _, p := range []*domain.Photo{
		{Name: "a", Category: domain.CategoryAction, GithubUser: "gPlake"},
		{Name: "b", Category: domain.CategoryAction, GithubUser: "sSchmidt"},
		{Name: "c", Category: domain.CategoryAction, GithubUser: "gPlake"},
	} {
		p.Created = time.Now().UTC().Truncate(time.Millisecond)
		_, err := photos.Insert(ctx, p)
		require.NoError(t, err)
	}

	owned, err := photos.FindByOwner(ctx, "gPlake")
	require.NoError(t, err)
	var names []string
	for _, p := range owned {
		assert.Equal(t, "gPlake", p.GithubUser)
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"a", "c"}, names)

	none, err := photos.FindByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	for _, id := range []string{"", "does-not-exist", "999999"} {
		missing, err := photos.FindByID(ctx, id)
		require.NoError(t, err, "id %q", id)
		assert.Nil(t, missing, "id %q", id)
	}
}

func testTags(t *testing.T, store ports.Store) {
	ctx := context.Background()
	tags := store.Tags()

	for _, tag := range []*domain.Tag{
		{PhotoID: "1", UserID: "gPlake"},
		{PhotoID: "2", UserID: "sSchmidt"},
		{PhotoID: "2", UserID: "mHattrup"},
		{PhotoID: "2", UserID: "gPlake"},
	} {
		require.NoError(t, tags.Insert(ctx, tag))
	}

	byPhoto, err := tags.FindByPhoto(ctx, "2")
	require.NoError(t, err)
	require.Len(t, byPhoto, 3)
	assert.Equal(t, "sSchmidt", byPhoto[0].UserID)
	assert.Equal(t, "mHattrup", byPhoto[1].UserID)
	assert.Equal(t, "gPlake", byPhoto[2].UserID)

	byUser, err := tags.FindByUser(ctx, "gPlake")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "1", byUser[0].PhotoID)
	assert.Equal(t, "2", byUser[1].PhotoID)

	none, err := tags.FindByPhoto(ctx, "3")
	require.NoError(t, err)
	assert.Empty(t, none)
}
