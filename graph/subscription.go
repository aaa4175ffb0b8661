package graph

import (
	"context"

	"photo-share-api/internal/domain"
)

// NewPhoto streams photos posted after the subscription starts
func (r *Resolver) NewPhoto(ctx context.Context) (<-chan *PhotoResolver, error) {
	events := r.events.Subscribe(ctx, domain.EventPhotoAdded)
	out := make(chan *PhotoResolver)

	go func() {
		defer close(out)
		for event := range events {
			if event.Photo == nil {
				continue
			}
			select {
			case out <- r.photoResolver(event.Photo):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// NewUser streams users created or refreshed after the subscription starts
func (r *Resolver) NewUser(ctx context.Context) (<-chan *UserResolver, error) {
	events := r.events.Subscribe(ctx, domain.EventUserAdded)
	out := make(chan *UserResolver)

	go func() {
		defer close(out)
		for event := range events {
			if event.User == nil {
				continue
			}
			select {
			case out <- r.userResolver(event.User):
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
