package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"photo-share-api/internal/domain"
	"photo-share-api/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisChannel is the Redis channel events are relayed through
const DefaultRedisChannel = "photoshare:events"

// RedisRelay publishes events through Redis pub/sub so that every API instance
// delivers them to its local subscribers. Redis pub/sub keeps no backlog, which
// preserves the at-most-once, no-replay semantics of the local broker.
type RedisRelay struct {
	client    redis.UniversalClient
	local     *Broker
	channel   string
	logger    zerolog.Logger
	ready     chan struct{}
	readyOnce sync.Once
}

var _ ports.EventBus = (*RedisRelay)(nil)

// NewRedisRelay creates a relay feeding the local broker from Redis
func NewRedisRelay(client redis.UniversalClient, local *Broker, logger zerolog.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		local:   local,
		channel: DefaultRedisChannel,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Publish sends event to Redis. Failures are logged, never returned: publication
// does not affect the outcome of the mutation that triggered it.
func (r *RedisRelay) Publish(ctx context.Context, event *domain.Event) {
	if event == nil {
		return
	}

	payload, err := json.Marshal(event.Redacted())
	if err != nil {
		r.logger.Error().Err(err).Str("event", event.Name).Msg("Failed to encode event")
		return
	}

	if err := r.client.Publish(context.WithoutCancel(ctx), r.channel, payload).Err(); err != nil {
		r.logger.Error().Err(err).Str("event", event.Name).Msg("Failed to publish event to Redis")
	}
}

// Subscribe registers a local listener; events reach it once Run relays them
func (r *RedisRelay) Subscribe(ctx context.Context, eventName string) <-chan *domain.Event {
	return r.local.Subscribe(ctx, eventName)
}

// Ready is closed once the relay's Redis subscription is confirmed
func (r *RedisRelay) Ready() <-chan struct{} {
	return r.ready
}

// Run relays Redis messages into the local broker until ctx is done
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.readyOnce.Do(func() { close(r.ready) })

	r.logger.Info().Str("channel", r.channel).Msg("Relaying events from Redis")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("Dropping undecodable event")
				continue
			}
			r.local.Publish(ctx, &event)
		}
	}
}
