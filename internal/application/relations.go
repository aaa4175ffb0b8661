package application

import (
	"context"
	"fmt"
	"strings"

	"photo-share-api/internal/domain"
)

// RelationResolver computes the derived fields of photos and users.
// Every join is a sequence of single-hop lookups; related entities that no
// longer exist are skipped rather than reported.
type RelationResolver struct {
	photoBaseURL string
}

// NewRelationResolver creates a resolver building photo URLs under photoBaseURL
func NewRelationResolver(photoBaseURL string) *RelationResolver {
	return &RelationResolver{photoBaseURL: strings.TrimRight(photoBaseURL, "/")}
}

// PhotoURL is a pure function of the photo id
func (r *RelationResolver) PhotoURL(photo *domain.Photo) string {
	return fmt.Sprintf("%s/img/%s.jpg", r.photoBaseURL, photo.ID)
}

// PostedBy returns the owner of photo, or nil when no such user exists
func (r *RelationResolver) PostedBy(ctx context.Context, ec *ExecContext, photo *domain.Photo) (*domain.User, error) {
	return ec.Store.Users().FindByLogin(ctx, photo.GithubUser)
}

// TaggedUsers returns the users tagged in photo, in tag order
func (r *RelationResolver) TaggedUsers(ctx context.Context, ec *ExecContext, photo *domain.Photo) ([]*domain.User, error) {
	tags, err := ec.Store.Tags().FindByPhoto(ctx, photo.ID)
	if err != nil {
		return nil, err
	}

	users := make([]*domain.User, 0, len(tags))
	for _, tag := range tags {
		user, err := ec.Store.Users().FindByLogin(ctx, tag.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			users = append(users, user)
		}
	}
	return users, nil
}

// PostedPhotos returns every photo owned by user
func (r *RelationResolver) PostedPhotos(ctx context.Context, ec *ExecContext, user *domain.User) ([]*domain.Photo, error) {
	return ec.Store.Photos().FindByOwner(ctx, user.GithubLogin)
}

// InPhotos returns the photos user is tagged in, in tag order
func (r *RelationResolver) InPhotos(ctx context.Context, ec *ExecContext, user *domain.User) ([]*domain.Photo, error) {
	tags, err := ec.Store.Tags().FindByUser(ctx, user.GithubLogin)
	if err != nil {
		return nil, err
	}

	photos := make([]*domain.Photo, 0, len(tags))
	for _, tag := range tags {
		photo, err := ec.Store.Photos().FindByID(ctx, tag.PhotoID)
		if err != nil {
			return nil, err
		}
		if photo != nil {
			photos = append(photos, photo)
		}
	}
	return photos, nil
}
