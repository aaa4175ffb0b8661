package pubsub

import (
	"context"
	"sync"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/infrastructure/metrics"
	"photo-share-api/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultBufferSize = 16

// subscription is one listener registered for a single event name
type subscription struct {
	id        string
	eventName string
	events    chan *domain.Event
	ctx       context.Context
	cancel    context.CancelFunc
}

// Broker fans events out to in-process subscribers.
// Delivery is at most once per Publish call, with no replay for late subscribers.
type Broker struct {
	mu         sync.RWMutex
	subs       map[string]*subscription
	bufferSize int
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

var _ ports.EventBus = (*Broker)(nil)

// NewBroker creates a new in-process event broker
func NewBroker(logger zerolog.Logger, m *metrics.Metrics) *Broker {
	return NewBrokerWithOptions(logger, m, defaultBufferSize)
}

// NewBrokerWithOptions creates a broker whose subscriber channels buffer bufferSize events
func NewBrokerWithOptions(logger zerolog.Logger, m *metrics.Metrics, bufferSize int) *Broker {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Broker{
		subs:       make(map[string]*subscription),
		bufferSize: bufferSize,
		logger:     logger,
		metrics:    m,
	}
}

// Subscribe registers a listener for eventName until ctx is done
func (b *Broker) Subscribe(ctx context.Context, eventName string) <-chan *domain.Event {
	subCtx, cancel := context.WithCancel(ctx)

	sub := &subscription{
		id:        uuid.NewString(),
		eventName: eventName,
		events:    make(chan *domain.Event, b.bufferSize),
		ctx:       subCtx,
		cancel:    cancel,
	}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()
	b.metrics.SubscriptionOpened()

	b.logger.Debug().
		Str("subscriptionId", sub.id).
		Str("event", eventName).
		Msg("Event subscription created")

	// Cleanup when context is cancelled
	go func() {
		<-subCtx.Done()
		b.unsubscribe(sub.id)
	}()

	return sub.events
}

func (b *Broker) unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, exists := b.subs[id]
	if !exists {
		return
	}

	close(sub.events)
	sub.cancel()
	delete(b.subs, id)
	b.metrics.SubscriptionClosed()

	b.logger.Debug().
		Str("subscriptionId", id).
		Str("event", sub.eventName).
		Msg("Event subscription removed")
}

// Publish delivers event to every current subscriber of event.Name without blocking
func (b *Broker) Publish(ctx context.Context, event *domain.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, sub := range b.subs {
		if sub.eventName != event.Name {
			continue
		}
		select {
		case sub.events <- event:
			delivered++
			b.metrics.EventDelivered(event.Name)
		case <-sub.ctx.Done():
			// Subscriber is going away, skip
		default:
			b.metrics.EventDropped(event.Name)
			b.logger.Warn().
				Str("subscriptionId", sub.id).
				Str("event", event.Name).
				Msg("Subscriber buffer full, dropping event")
		}
	}

	b.logger.Debug().
		Str("event", event.Name).
		Int("subscribers", delivered).
		Msg("Published event")
}

// ActiveSubscriptions returns the number of listeners registered for eventName
func (b *Broker) ActiveSubscriptions(eventName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, sub := range b.subs {
		if sub.eventName == eventName {
			n++
		}
	}
	return n
}

// Stats returns pub/sub statistics
func (b *Broker) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return map[string]interface{}{
		"active_subscriptions": len(b.subs),
	}
}
