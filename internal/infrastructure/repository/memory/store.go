// Package memory provides a thread-safe, in-memory implementation of ports.Store.
// It is suitable for development and tests; nothing is persisted.
package memory

import (
	"context"
	"strconv"
	"sync"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"
)

// Store keeps the three collections as insertion-ordered slices guarded by one RWMutex.
// Entities are copied on the way in and out so callers never share state with the store.
type Store struct {
	mu          sync.RWMutex
	users       []*domain.User
	photos      []*domain.Photo
	tags        []*domain.Tag
	nextPhotoID int64
}

var _ ports.Store = (*Store)(nil)

// New creates a new, empty in-memory store
func New() *Store {
	return &Store{}
}

func (s *Store) Users() ports.UserRepository   { return userRepository{s} }
func (s *Store) Photos() ports.PhotoRepository { return photoRepository{s} }
func (s *Store) Tags() ports.TagRepository     { return tagRepository{s} }

type userRepository struct{ s *Store }

func (r userRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

func (r userRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, copyUser(u))
	}
	return users, nil
}

func (r userRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.findFirst(func(u *domain.User) bool { return u.GithubLogin == login }), nil
}

func (r userRepository) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, nil
	}
	return r.findFirst(func(u *domain.User) bool { return u.GithubToken == token }), nil
}

func (r userRepository) findFirst(match func(*domain.User) bool) *domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return copyUser(u)
		}
	}
	return nil
}

func (r userRepository) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, u := range r.s.users {
		if u.GithubLogin == user.GithubLogin {
			r.s.users[i] = copyUser(user)
			return copyUser(user), nil
		}
	}
	r.s.users = append(r.s.users, copyUser(user))
	return copyUser(user), nil
}

type photoRepository struct{ s *Store }

func (r photoRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.photos), nil
}

func (r photoRepository) FindAll(ctx context.Context) ([]*domain.Photo, error) {
	return r.filter(func(*domain.Photo) bool { return true }), nil
}

func (r photoRepository) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.photos {
		if p.ID == id {
			return copyPhoto(p), nil
		}
	}
	return nil, nil
}

func (r photoRepository) FindByOwner(ctx context.Context, login string) ([]*domain.Photo, error) {
	return r.filter(func(p *domain.Photo) bool { return p.GithubUser == login }), nil
}

func (r photoRepository) filter(match func(*domain.Photo) bool) []*domain.Photo {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	photos := make([]*domain.Photo, 0)
	for _, p := range r.s.photos {
		if match(p) {
			photos = append(photos, copyPhoto(p))
		}
	}
	return photos
}

func (r photoRepository) Insert(ctx context.Context, photo *domain.Photo) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextPhotoID++
	stored := copyPhoto(photo)
	stored.ID = strconv.FormatInt(r.s.nextPhotoID, 10)
	r.s.photos = append(r.s.photos, stored)
	return stored.ID, nil
}

type tagRepository struct{ s *Store }

func (r tagRepository) FindByPhoto(ctx context.Context, photoID string) ([]*domain.Tag, error) {
	return r.filter(func(t *domain.Tag) bool { return t.PhotoID == photoID }), nil
}

func (r tagRepository) FindByUser(ctx context.Context, login string) ([]*domain.Tag, error) {
	return r.filter(func(t *domain.Tag) bool { return t.UserID == login }), nil
}

func (r tagRepository) filter(match func(*domain.Tag) bool) []*domain.Tag {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := make([]*domain.Tag, 0)
	for _, t := range r.s.tags {
		if match(t) {
			tag := *t
			tags = append(tags, &tag)
		}
	}
	return tags
}

func (r tagRepository) Insert(ctx context.Context, tag *domain.Tag) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *tag
	r.s.tags = append(r.s.tags, &stored)
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copyPhoto(p *domain.Photo) *domain.Photo {
	c := *p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	return &c
}
