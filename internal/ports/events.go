package ports

import (
	"context"

	"photo-share-api/internal/domain"
)

// EventPublisher delivers an event to every current subscriber of its name
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.Event)
}

// EventSubscriber hands out channels of events for a name.
// The channel is closed once ctx is done.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventName string) <-chan *domain.Event
}

// EventBus is both sides of the publish/subscribe port
type EventBus interface {
	EventPublisher
	EventSubscriber
}
