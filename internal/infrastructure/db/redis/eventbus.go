package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/zecall/dashboard/internal/core/domain"
)

const subscriberBuffer = 16

// EventBus fans credits updates out over Redis pub/sub so every dashboard
// instance can push them to its connected browsers.
type EventBus struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewEventBus(client *redis.Client, log zerolog.Logger) *EventBus {
	return &EventBus{client: client, log: log}
}

func eventChannel(userID string) string {
	return "zecall:events:" + userID
}

// Publish sends the update on the user's channel.
func (b *EventBus) Publish(ctx context.Context, ev domain.CreditsUpdated) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, eventChannel(ev.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe listens on the user's channel. The returned channel is closed when
// ctx is done or the close func is called.
func (b *EventBus) Subscribe(ctx context.Context, userID string) (<-chan domain.CreditsUpdated, func() error, error) {
	ps := b.client.Subscribe(ctx, eventChannel(userID))
	// Wait for the subscription confirmation so no publish is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", userID, err)
	}

	out := make(chan domain.CreditsUpdated, subscriberBuffer)
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = ps.Close()
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev domain.CreditsUpdated
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("dropping malformed event")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					_ = ps.Close()
					return
				}
			}
		}
	}()

	return out, ps.Close, nil
}
