package application

import (
	"context"
	"fmt"
	"time"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/metrics"

	"github.com/rs/zerolog"
)

// PhotoService handles photo queries and posting
type PhotoService struct {
	now     func() time.Time
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewPhotoService creates a new photo service
func NewPhotoService(m *metrics.Metrics, logger zerolog.Logger) *PhotoService {
	return NewPhotoServiceWithClock(time.Now, m, logger)
}

// NewPhotoServiceWithClock creates a photo service stamping posts with now
func NewPhotoServiceWithClock(now func() time.Time, m *metrics.Metrics, logger zerolog.Logger) *PhotoService {
	return &PhotoService{
		now:     now,
		metrics: m,
		logger:  logger,
	}
}

// PostPhoto stores a new photo owned by the current user, tags it and
// publishes photo-added. Without a current user nothing is written.
func (s *PhotoService) PostPhoto(ctx context.Context, ec *ExecContext, input domain.PostPhotoInput) (photo *domain.Photo, err error) {
	defer func() { s.metrics.ObserveMutation("postPhoto", err) }()

	if ec.CurrentUser == nil {
		return nil, fmt.Errorf("%w: only an authorized user can post a photo", domain.ErrUnauthorized)
	}

	category, err := domain.ParsePhotoCategory(string(input.Category))
	if err != nil {
		return nil, err
	}

	photo = &domain.Photo{
		Name:        input.Name,
		Description: input.Description,
		Category:    category,
		GithubUser:  ec.CurrentUser.GithubLogin,
		Created:     s.now().UTC().Truncate(time.Millisecond),
	}

	id, err := ec.Store.Photos().Insert(ctx, photo)
	if err != nil {
		s.logger.Error().Err(err).Str("githubUser", photo.GithubUser).Msg("Failed to insert photo")
		return nil, err
	}
	photo.ID = id

	// The photo is persisted from here on: tag failures are logged and the
	// photo is still published and returned.
	seen := make(map[string]bool, len(input.TaggedUserIDs))
	tagged, failed := 0, 0
	for _, login := range input.TaggedUserIDs {
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true

		if err := ec.Store.Tags().Insert(ctx, &domain.Tag{PhotoID: id, UserID: login}); err != nil {
			s.logger.Error().Err(err).Str("photoID", id).Str("userID", login).Msg("Failed to tag user")
			failed++
			continue
		}
		tagged++
	}

	ec.publish(ctx, domain.NewPhotoAddedEvent(photo))

	s.logger.Info().
		Str("photoID", id).
		Str("githubUser", photo.GithubUser).
		Int("tags", tagged).
		Int("failedTags", failed).
		Msg("Photo posted")

	return photo, nil
}

// TotalPhotos returns the number of stored photos
func (s *PhotoService) TotalPhotos(ctx context.Context, ec *ExecContext) (int, error) {
	return ec.Store.Photos().Count(ctx)
}

// AllPhotos returns every stored photo
func (s *PhotoService) AllPhotos(ctx context.Context, ec *ExecContext) ([]*domain.Photo, error) {
	return ec.Store.Photos().FindAll(ctx)
}

// Photo returns the photo with id; absence is an error
func (s *PhotoService) Photo(ctx context.Context, ec *ExecContext, id string) (*domain.Photo, error) {
	photo, err := ec.Store.Photos().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: cannot find photo with id %q", domain.ErrNotFound, id)
	}
	return photo, nil
}
