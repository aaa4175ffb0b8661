package application

import (
	"context"
	"fmt"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"github.com/rs/zerolog"
)

type samplePhoto struct {
	photo  domain.Photo
	tagged []string
}

// SampleUsers are the accounts loaded by Seed
var SampleUsers = []domain.User{
	{GithubLogin: "mHattrup", Name: "Mike Hattrup"},
	{GithubLogin: "gPlake", Name: "Glen Plake"},
	{GithubLogin: "sSchmidt", Name: "Scot Schmidt"},
}

var samplePhotos = []samplePhoto{
	{
		photo: domain.Photo{
			Name:        "Dropping the Heart Chute",
			Description: text("The heart chute is one of my favorite chutes"),
			Category:    domain.CategoryAction,
			GithubUser:  "gPlake",
			Created:     time.Date(1977, 3, 28, 0, 0, 0, 0, time.UTC),
		},
		tagged: []string{"gPlake"},
	},
	{
		photo: domain.Photo{
			Name:        "Enjoing the sunshine",
			Description: text("The heart chute is one of my favorite chutes"),
			Category:    domain.CategorySelfie,
			GithubUser:  "gPlake",
			Created:     time.Date(1985, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		tagged: []string{"sSchmidt", "mHattrup", "gPlake"},
	},
	{
		photo: domain.Photo{
			Name:        "Gunbarrel 25",
			Description: text("25 laps on gunvarrel today"),
			Category:    domain.CategoryLandscape,
			GithubUser:  "sSchmidt",
			Created:     time.Date(2018, 4, 15, 19, 9, 57, 308000000, time.UTC),
		},
	},
}

func text(s string) *string {
	return &s
}

// SeedResult reports what Seed wrote
type SeedResult struct {
	Users  int
	Photos int
	Tags   int
}

// Seed loads the sample users, photos and tags into store. Users are upserted;
// photos and tags are only written into an empty photos collection.
func Seed(ctx context.Context, store ports.Store, logger zerolog.Logger) (*SeedResult, error) {
	result := &SeedResult{}

	for i := range SampleUsers {
		u := SampleUsers[i]
		if _, err := store.Users().Upsert(ctx, &u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.GithubLogin, err)
		}
		result.Users++
	}

	existing, err := store.Photos().Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		logger.Info().Int("photos", existing).Msg("Photos already present, skipping sample photos")
		return result, nil
	}

	for _, sample := range samplePhotos {
		p := sample.photo
		id, err := store.Photos().Insert(ctx, &p)
		if err != nil {
			return nil, fmt.Errorf("failed to seed photo %q: %w", p.Name, err)
		}
		result.Photos++

		for _, login := range sample.tagged {
			if err := store.Tags().Insert(ctx, &domain.Tag{PhotoID: id, UserID: login}); err != nil {
				return nil, fmt.Errorf("failed to seed tag: %w", err)
			}
			result.Tags++
		}
	}

	logger.Info().
		Int("users", result.Users).
		Int("photos", result.Photos).
		Int("tags", result.Tags).
		Msg("Seeded sample data")

	return result, nil
}
