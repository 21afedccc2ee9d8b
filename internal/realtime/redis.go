package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster implements Broadcaster and Subscriber over Redis pub/sub.
// Redis channels are fire-and-forget: messages published while nobody is
// subscribed are dropped, which matches the best-effort broadcast contract.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster connects to Redis and verifies the connection.
func NewRedisBroadcaster(ctx context.Context, addr, password string, db int) (*RedisBroadcaster, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	slog.Info("[Redis] Broadcaster connected", "addr", addr, "db", db)
	return &RedisBroadcaster{client: client}, nil
}

// Publish sends the payload to every current subscriber of the topic.
func (b *RedisBroadcaster) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe streams payloads published to the topic. The returned cancel
// function closes the subscription and the channel.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	sub := b.client.Subscribe(ctx, topic)

	// Receive forces the SUBSCRIBE round-trip so a broken transport fails
	// here instead of silently delivering nothing.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			slog.Warn("[Redis] Failed to close subscription", "topic", topic, "error", err)
		}
	}
	return out, cancel, nil
}

// Close releases the underlying Redis connection.
func (b *RedisBroadcaster) Close() error {
	return b.client.Close()
}
