package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/repository/memory"
	"photo-share-api/internal/ports"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*domain.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event *domain.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []*domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*domain.Event(nil), p.events...)
}

// fakeProvider maps codes to tokens and tokens to profiles
type fakeProvider struct {
	tokens       map[string]string
	profiles     map[string]*ports.ExternalProfile
	rejectWith   string
	exchangeErr  error
	profileErr   error
	exchangeCall int
	profileCall  int
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, code string) (string, error) {
	p.exchangeCall++
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	if p.rejectWith != "" {
		return "", &domain.ExternalAuthRejectedError{Message: p.rejectWith}
	}
	token, ok := p.tokens[code]
	if !ok {
		return "", &domain.ExternalAuthRejectedError{Message: "bad_verification_code"}
	}
	return token, nil
}

func (p *fakeProvider) FetchProfile(ctx context.Context, token string) (*ports.ExternalProfile, error) {
	p.profileCall++
	if p.profileErr != nil {
		return nil, p.profileErr
	}
	return p.profiles[token], nil
}

type fakeUserSource struct {
	users []*domain.User
	err   error
}

func (s *fakeUserSource) FetchUsers(ctx context.Context, count int) ([]*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if count < len(s.users) {
		return s.users[:count], nil
	}
	return s.users, nil
}

func newExecContext(t *testing.T, current *domain.User) (*ExecContext, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return &ExecContext{Store: memory.New(), CurrentUser: current, Publisher: pub}, pub
}

var errStoreDown = fmt.Errorf("%w: failed to reach store: connection refused", domain.ErrStoreUnavailable)

// faultyStore wraps a working store and fails the operations switched on
type faultyStore struct {
	ports.Store
	failPhotoInsert bool
	failPhotoLookup bool
	failTagInsert   bool
	failUserLookup  bool
	// upserts allowed before Upsert starts failing; negative never fails
	upsertsLeft int
}

func (s *faultyStore) Users() ports.UserRepository {
	return faultyUsers{UserRepository: s.Store.Users(), s: s}
}

func (s *faultyStore) Photos() ports.PhotoRepository {
	return faultyPhotos{PhotoRepository: s.Store.Photos(), s: s}
}

func (s *faultyStore) Tags() ports.TagRepository {
	return faultyTags{TagRepository: s.Store.Tags(), s: s}
}

type faultyUsers struct {
	ports.UserRepository
	s *faultyStore
}

func (r faultyUsers) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	if r.s.failUserLookup {
		return nil, errStoreDown
	}
	return r.UserRepository.FindByLogin(ctx, login)
}

func (r faultyUsers) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if r.s.upsertsLeft == 0 {
		return nil, errStoreDown
	}
	r.s.upsertsLeft--
	return r.UserRepository.Upsert(ctx, user)
}

type faultyPhotos struct {
	ports.PhotoRepository
	s *faultyStore
}

func (r faultyPhotos) FindByID(ctx context.Context, id string) (*domain.Photo, error) {
	if r.s.failPhotoLookup {
		return nil, errStoreDown
	}
	return r.PhotoRepository.FindByID(ctx, id)
}

func (r faultyPhotos) Insert(ctx context.Context, photo *domain.Photo) (string, error) {
	if r.s.failPhotoInsert {
		return "", errStoreDown
	}
	return r.PhotoRepository.Insert(ctx, photo)
}

type faultyTags struct {
	ports.TagRepository
	s *faultyStore
}

func (r faultyTags) Insert(ctx context.Context, tag *domain.Tag) error {
	if r.s.failTagInsert {
		return errStoreDown
	}
	return r.TagRepository.Insert(ctx, tag)
}

// newFaultyExecContext returns an ExecContext over a memory store whose
// failures are switched on through the returned faultyStore
func newFaultyExecContext(t *testing.T, current *domain.User) (*ExecContext, *faultyStore, *recordingPublisher) {
	t.Helper()
	store := &faultyStore{Store: memory.New(), upsertsLeft: -1}
	pub := &recordingPublisher{}
	return &ExecContext{Store: store, CurrentUser: current, Publisher: pub}, store, pub
}

func mustUpsertUser(t *testing.T, ec *ExecContext, u *domain.User) *domain.User {
	t.Helper()
	stored, err := ec.Store.Users().Upsert(context.Background(), u)
	require.NoError(t, err)
	return stored
}

func mustInsertPhoto(t *testing.T, ec *ExecContext, p *domain.Photo) *domain.Photo {
	t.Helper()
	id, err := ec.Store.Photos().Insert(context.Background(), p)
	require.NoError(t, err)
	p.ID = id
	return p
}

func mustTag(t *testing.T, ec *ExecContext, photoID, login string) {
	t.Helper()
	require.NoError(t, ec.Store.Tags().Insert(context.Background(), &domain.Tag{PhotoID: photoID, UserID: login}))
}

func logins(users []*domain.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.GithubLogin)
	}
	return out
}

func photoNames(photos []*domain.Photo) []string {
	out := make([]string, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.Name)
	}
	return out
}
