package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"fixly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Hub publishes and subscribes events on logical channels. Publishing to a
// channel nobody listens on is not an error; that is the at-most-once
// contract.
type Hub interface {
	Publish(ctx context.Context, channel string, event Event) error
	Subscribe(ctx context.Context, channel string) (*Subscription, error)
}

// Subscription is a live feed of events from one channel. Close it when the
// subscriber goes away.
type Subscription struct {
	events <-chan Event
	pubsub *redis.PubSub
}

// Events returns the event feed. The channel closes when the subscription
// is closed or the subscribe context ends.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// RedisHub implements Hub on Redis pub/sub.
type RedisHub struct {
	client *redis.Client
}

// NewRedisHub creates a Hub backed by the given Redis client.
func NewRedisHub(client *redis.Client) *RedisHub {
	return &RedisHub{client: client}
}

func (h *RedisHub) Publish(ctx context.Context, channel string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for %s: %w", channel, err)
	}
	if err := h.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

func (h *RedisHub) Subscribe(ctx context.Context, channel string) (*Subscription, error) {
	pubsub := h.client.Subscribe(ctx, channel)
	// Force the subscription to be established before we hand it out.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	events := make(chan Event)
	go func() {
		defer close(events)
		logger := utils.GetLogger()
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn("realtime: dropping malformed event",
					zap.String("channel", channel), zap.Error(err))
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return &Subscription{events: events, pubsub: pubsub}, nil
}
