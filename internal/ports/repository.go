package ports

import (
	"context"

	"photo-share-api/internal/domain"
)

// UserRepository defines persistence for the users collection.
// Lookups that match nothing return (nil, nil).
type UserRepository interface {
	Count(ctx context.Context) (int, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByToken(ctx context.Context, token string) (*domain.User, error)

	// Upsert replaces the user matching user.GithubLogin, inserting it when absent,
	// and returns the stored record
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PhotoRepository defines persistence for the photos collection
type PhotoRepository interface {
	Count(ctx context.Context) (int, error)
	FindAll(ctx context.Context) ([]*domain.Photo, error)
	FindByID(ctx context.Context, id string) (*domain.Photo, error)
	FindByOwner(ctx context.Context, login string) ([]*domain.Photo, error)

	// Insert stores the photo and returns the generated id
	Insert(ctx context.Context, photo *domain.Photo) (string, error)
}

// TagRepository defines persistence for the tags collection.
// Results are returned in tag insertion order.
type TagRepository interface {
	FindByPhoto(ctx context.Context, photoID string) ([]*domain.Tag, error)
	FindByUser(ctx context.Context, login string) ([]*domain.Tag, error)
	Insert(ctx context.Context, tag *domain.Tag) error
}

// Store groups the three collections behind one handle
type Store interface {
	Users() UserRepository
	Photos() PhotoRepository
	Tags() TagRepository
}
